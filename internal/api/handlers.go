package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/ignite/waitlist-api/internal/config"
	"github.com/ignite/waitlist-api/internal/pkg/httputil"
	"github.com/ignite/waitlist-api/internal/ratelimit"
	"github.com/ignite/waitlist-api/internal/service/contacts"
	"github.com/ignite/waitlist-api/internal/service/waitlist"
	"github.com/ignite/waitlist-api/internal/webhook"
)

// CaptchaVerifier validates a Turnstile token for a client IP.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// SignupLimiter throttles signup attempts per client IP.
type SignupLimiter interface {
	Allow(ctx context.Context, ip string) ratelimit.Result
}

// Handlers holds the HTTP handlers and their dependencies. A nil
// captcha or limiter disables that gate.
type Handlers struct {
	waitlist *waitlist.Service
	contacts *contacts.Service
	webhooks *webhook.Processor

	captcha CaptchaVerifier
	limiter SignupLimiter

	app           config.AppConfig
	webhookSecret string
}

// NewHandlers wires the handlers to their services.
func NewHandlers(
	waitlistSvc *waitlist.Service,
	contactsSvc *contacts.Service,
	processor *webhook.Processor,
	captcha CaptchaVerifier,
	limiter SignupLimiter,
	app config.AppConfig,
	webhookSecret string,
) *Handlers {
	return &Handlers{
		waitlist:      waitlistSvc,
		contacts:      contactsSvc,
		webhooks:      processor,
		captcha:       captcha,
		limiter:       limiter,
		app:           app,
		webhookSecret: webhookSecret,
	}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "healthy"})
}

// clientIP extracts the client address. middleware.RealIP has already
// folded proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// redirectTarget resolves a configured redirect URL, prefixing the app
// base URL for relative paths.
func (h *Handlers) redirectTarget(configured string) string {
	if strings.HasPrefix(configured, "http://") || strings.HasPrefix(configured, "https://") {
		return configured
	}
	return h.app.BaseURL + configured
}
