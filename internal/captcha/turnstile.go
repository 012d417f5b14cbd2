// Package captcha verifies Cloudflare Turnstile tokens submitted with
// signup requests.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ignite/waitlist-api/internal/pkg/httpretry"
	"github.com/ignite/waitlist-api/internal/pkg/logger"
)

const defaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Verifier checks Turnstile tokens against the siteverify endpoint.
type Verifier struct {
	secret    string
	verifyURL string
	client    httpretry.HTTPDoer
}

// NewVerifier creates a verifier for the given site secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret:    secret,
		verifyURL: defaultVerifyURL,
		client:    httpretry.New(nil, 2),
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify reports whether the token is valid for the given client IP.
// Transport and decode errors are returned so the caller can decide
// whether to fail open or closed.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("captcha: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha: siteverify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha: siteverify returned status %d", resp.StatusCode)
	}

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("captcha: decode siteverify response: %w", err)
	}

	if !result.Success {
		logger.Debug("Captcha verification rejected", "error_codes", strings.Join(result.ErrorCodes, ","))
	}
	return result.Success, nil
}
