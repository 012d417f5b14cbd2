package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ignite/waitlist-api/internal/config"
	"github.com/ignite/waitlist-api/internal/domain"
	"github.com/ignite/waitlist-api/internal/pkg/emailutil"
	"github.com/ignite/waitlist-api/internal/ratelimit"
	"github.com/ignite/waitlist-api/internal/service/contacts"
	"github.com/ignite/waitlist-api/internal/service/waitlist"
	"github.com/ignite/waitlist-api/internal/webhook"
)

// In-memory waitlist repository.
type memWaitlistRepo struct {
	entries map[string]*domain.WaitlistEntry
	nextID  int
}

func newMemWaitlistRepo() *memWaitlistRepo {
	return &memWaitlistRepo{entries: map[string]*domain.WaitlistEntry{}}
}

func (m *memWaitlistRepo) FindByContactID(ctx context.Context, contactID string) (*domain.WaitlistEntry, error) {
	for _, e := range m.entries {
		if e.ContactID != nil && *e.ContactID == contactID {
			return e, nil
		}
	}
	return nil, waitlist.ErrNotFound
}

func (m *memWaitlistRepo) FindByEmail(ctx context.Context, email string) (*domain.WaitlistEntry, error) {
	for _, e := range m.entries {
		if emailutil.Normalize(e.Email) == email {
			return e, nil
		}
	}
	return nil, waitlist.ErrNotFound
}

func (m *memWaitlistRepo) FindByConfirmationToken(ctx context.Context, token string) (*domain.WaitlistEntry, error) {
	for _, e := range m.entries {
		if e.ConfirmationToken != nil && *e.ConfirmationToken == token {
			return e, nil
		}
	}
	return nil, waitlist.ErrNotFound
}

func (m *memWaitlistRepo) Create(ctx context.Context, e *domain.WaitlistEntry) error {
	for _, existing := range m.entries {
		if emailutil.Normalize(existing.Email) == emailutil.Normalize(e.Email) {
			return waitlist.ErrDuplicate
		}
	}
	m.nextID++
	e.ID = fmt.Sprintf("entry-%03d", m.nextID)
	m.entries[e.ID] = e
	return nil
}

func (m *memWaitlistRepo) ReplaceConfirmationToken(ctx context.Context, entryID, token string, expiresAt time.Time, contactID *string) error {
	e, ok := m.entries[entryID]
	if !ok {
		return waitlist.ErrNotFound
	}
	e.ConfirmationToken = &token
	e.TokenExpiresAt = &expiresAt
	if contactID != nil {
		e.ContactID = contactID
	}
	return nil
}

func (m *memWaitlistRepo) Confirm(ctx context.Context, entryID string, at time.Time) error {
	e, ok := m.entries[entryID]
	if !ok {
		return waitlist.ErrNotFound
	}
	e.Confirmed = true
	e.ConfirmedAt = &at
	e.ConfirmationToken = nil
	e.TokenExpiresAt = nil
	return nil
}

// In-memory contacts repository.
type memContactsRepo struct {
	byEmail    map[string]*domain.Contact
	activities []*domain.ContactActivity
	nextID     int
}

func newMemContactsRepo() *memContactsRepo {
	return &memContactsRepo{byEmail: map[string]*domain.Contact{}}
}

func (m *memContactsRepo) FindByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	if c, ok := m.byEmail[email]; ok {
		return c, nil
	}
	return nil, contacts.ErrNotFound
}

func (m *memContactsRepo) FindByUnsubscribeToken(ctx context.Context, token string) (*domain.Contact, error) {
	for _, c := range m.byEmail {
		if c.UnsubscribeToken == token {
			return c, nil
		}
	}
	return nil, contacts.ErrNotFound
}

func (m *memContactsRepo) Create(ctx context.Context, c *domain.Contact) error {
	m.nextID++
	c.ID = fmt.Sprintf("contact-%03d", m.nextID)
	m.byEmail[c.EmailNormalized] = c
	return nil
}

func (m *memContactsRepo) SetUnsubscribeToken(ctx context.Context, contactID, token string) error {
	for _, c := range m.byEmail {
		if c.ID == contactID {
			c.UnsubscribeToken = token
		}
	}
	return nil
}

func (m *memContactsRepo) MarkVerified(ctx context.Context, contactID string, at time.Time) error {
	for _, c := range m.byEmail {
		if c.ID == contactID {
			c.EmailVerified = true
			c.EmailVerifiedAt = &at
		}
	}
	return nil
}

func (m *memContactsRepo) MarkVerifiedByEmail(ctx context.Context, email string, at time.Time) error {
	if c, ok := m.byEmail[email]; ok {
		c.EmailVerified = true
		c.EmailVerifiedAt = &at
	}
	return nil
}

func (m *memContactsRepo) MarkUnsubscribed(ctx context.Context, email string, at time.Time) error {
	if c, ok := m.byEmail[email]; ok {
		c.EmailUnsubscribed = true
		c.EmailUnsubscribedAt = &at
	}
	return nil
}

func (m *memContactsRepo) MarkUnsubscribedByToken(ctx context.Context, token string, at time.Time) error {
	for _, c := range m.byEmail {
		if c.UnsubscribeToken == token {
			c.EmailUnsubscribed = true
			c.EmailUnsubscribedAt = &at
		}
	}
	return nil
}

func (m *memContactsRepo) MarkBounced(ctx context.Context, email string, at time.Time) error {
	if c, ok := m.byEmail[email]; ok {
		c.EmailBounced = true
		c.EmailBouncedAt = &at
	}
	return nil
}

func (m *memContactsRepo) LogActivity(ctx context.Context, a *domain.ContactActivity) error {
	m.activities = append(m.activities, a)
	return nil
}

type fakeMailer struct {
	confirmations []string
	welcomes      []string
	lastToken     string
}

func (f *fakeMailer) SendConfirmation(ctx context.Context, email, token string) error {
	f.confirmations = append(f.confirmations, email)
	f.lastToken = token
	return nil
}

func (f *fakeMailer) SendWelcome(ctx context.Context, email, unsubscribeToken string) error {
	f.welcomes = append(f.welcomes, email)
	return nil
}

type fakeCaptcha struct {
	ok  bool
	err error
}

func (f *fakeCaptcha) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	return f.ok, f.err
}

type fakeLimiter struct {
	result ratelimit.Result
}

func (f *fakeLimiter) Allow(ctx context.Context, ip string) ratelimit.Result {
	return f.result
}

type testEnv struct {
	router   http.Handler
	waitlist *memWaitlistRepo
	contacts *memContactsRepo
	mailer   *fakeMailer
}

type envOption func(*envConfig)

type envConfig struct {
	captcha       CaptchaVerifier
	limiter       SignupLimiter
	webhookSecret string
	doubleOptIn   bool
}

func withCaptcha(v CaptchaVerifier) envOption     { return func(c *envConfig) { c.captcha = v } }
func withLimiter(l SignupLimiter) envOption       { return func(c *envConfig) { c.limiter = l } }
func withWebhookSecret(secret string) envOption   { return func(c *envConfig) { c.webhookSecret = secret } }
func withSingleOptIn() envOption                  { return func(c *envConfig) { c.doubleOptIn = false } }

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := envConfig{doubleOptIn: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	wlRepo := newMemWaitlistRepo()
	ctRepo := newMemContactsRepo()
	mail := &fakeMailer{}

	contactsSvc := contacts.NewService(ctRepo)
	waitlistSvc := waitlist.NewService(wlRepo, contactsSvc, mail, cfg.doubleOptIn)
	processor := webhook.NewProcessor(contactsSvc)

	app := config.AppConfig{
		BaseURL:               "https://acme.example.com",
		ConfirmSuccessURL:     "/waitlist-confirmed",
		ConfirmErrorURL:       "/waitlist-error",
		UnsubscribeSuccessURL: "/unsubscribe-success",
		UnsubscribeErrorURL:   "/unsubscribe-error",
	}

	h := NewHandlers(waitlistSvc, contactsSvc, processor, cfg.captcha, cfg.limiter, app, cfg.webhookSecret)
	router := SetupRoutes(h, config.CORSConfig{})

	return &testEnv{router: router, waitlist: wlRepo, contacts: ctRepo, mailer: mail}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "203.0.113.9:54000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if decodeBody(t, rec)["status"] != "healthy" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSubscribe_NewSignupDoubleOptIn(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "Jane@Example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true || body["requiresConfirmation"] != true {
		t.Errorf("body = %v", body)
	}
	if !strings.HasPrefix(body["message"].(string), "Almost there!") {
		t.Errorf("message = %v", body["message"])
	}
	if len(env.mailer.confirmations) != 1 || env.mailer.confirmations[0] != "jane@example.com" {
		t.Errorf("confirmations = %v", env.mailer.confirmations)
	}
	if _, ok := env.contacts.byEmail["jane@example.com"]; !ok {
		t.Error("contact not created alongside signup")
	}
}

func TestSubscribe_SingleOptIn(t *testing.T) {
	env := newTestEnv(t, withSingleOptIn())

	rec := env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if _, present := body["requiresConfirmation"]; present {
		t.Errorf("requiresConfirmation present in single opt-in response: %v", body)
	}
	if len(env.mailer.welcomes) != 1 {
		t.Errorf("welcomes = %v, want immediate welcome", env.mailer.welcomes)
	}
}

func TestSubscribe_ResendForUnconfirmed(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})
	firstToken := env.mailer.lastToken

	rec := env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 resend", rec.Code)
	}
	if !strings.HasPrefix(decodeBody(t, rec)["message"].(string), "We've resent") {
		t.Errorf("body = %s", rec.Body.String())
	}
	if env.mailer.lastToken == firstToken {
		t.Error("resend did not rotate the confirmation token")
	}
}

func TestSubscribe_AlreadyConfirmed(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})
	env.do(t, http.MethodGet, "/api/confirm?token="+env.mailer.lastToken, nil)

	rec := env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "already_subscribed" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	env := newTestEnv(t)

	for _, email := range []string{"", "not-an-email", "missing@tld"} {
		rec := env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": email})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("email %q status = %d, want 400", email, rec.Code)
		}
	}
}

func TestSubscribe_MalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader("{not json"))
	req.RemoteAddr = "203.0.113.9:54000"
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSubscribe_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/subscribe", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestSubscribe_RateLimited(t *testing.T) {
	env := newTestEnv(t, withLimiter(&fakeLimiter{result: ratelimit.Result{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: 120 * time.Second,
		Reset:      time.Now().Unix() + 120,
	}}))

	rec := env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["error"] != "rate_limited" {
		t.Errorf("body = %v", body)
	}
	if body["retryAfter"] != float64(120) {
		t.Errorf("retryAfter = %v", body["retryAfter"])
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
	if rec.Header().Get("X-RateLimit-Reset") == "" {
		t.Error("X-RateLimit-Reset header missing")
	}
	if len(env.waitlist.entries) != 0 {
		t.Error("rate-limited request created an entry")
	}
}

func TestSubscribe_RateLimitHeadersOnSuccess(t *testing.T) {
	env := newTestEnv(t, withLimiter(&fakeLimiter{result: ratelimit.Result{
		Allowed:   true,
		Remaining: 3,
		Reset:     time.Now().Unix() + 3600,
	}}))

	rec := env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "3" {
		t.Errorf("X-RateLimit-Remaining = %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestSubscribe_Captcha(t *testing.T) {
	t.Run("token required", func(t *testing.T) {
		env := newTestEnv(t, withCaptcha(&fakeCaptcha{ok: true}))

		rec := env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if decodeBody(t, rec)["error"] != "captcha_required" {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("verification failed", func(t *testing.T) {
		env := newTestEnv(t, withCaptcha(&fakeCaptcha{ok: false}))

		rec := env.do(t, http.MethodPost, "/api/subscribe", map[string]string{
			"email": "jane@example.com", "turnstileToken": "bad",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if decodeBody(t, rec)["error"] != "captcha_failed" {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("verification passed", func(t *testing.T) {
		env := newTestEnv(t, withCaptcha(&fakeCaptcha{ok: true}))

		rec := env.do(t, http.MethodPost, "/api/subscribe", map[string]string{
			"email": "jane@example.com", "turnstileToken": "good",
		})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestConfirm_Redirects(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})
	token := env.mailer.lastToken

	t.Run("success", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/confirm?token="+token, nil)
		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "https://acme.example.com/waitlist-confirmed" {
			t.Errorf("Location = %s", loc)
		}
		if len(env.mailer.welcomes) != 1 {
			t.Errorf("welcomes = %v, want welcome after confirm", env.mailer.welcomes)
		}
	})

	t.Run("used token is invalid", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/confirm?token="+token, nil)
		if loc := rec.Header().Get("Location"); !strings.HasSuffix(loc, "?error=invalid_token") {
			t.Errorf("Location = %s", loc)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/confirm", nil)
		if loc := rec.Header().Get("Location"); !strings.HasSuffix(loc, "?error=missing_token") {
			t.Errorf("Location = %s", loc)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/confirm?token=deadbeef", nil)
		if loc := rec.Header().Get("Location"); !strings.HasSuffix(loc, "?error=invalid_token") {
			t.Errorf("Location = %s", loc)
		}
	})
}

func TestConfirm_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})

	for _, e := range env.waitlist.entries {
		past := time.Now().Add(-time.Hour)
		e.TokenExpiresAt = &past
	}

	rec := env.do(t, http.MethodGet, "/api/confirm?token="+env.mailer.lastToken, nil)
	if loc := rec.Header().Get("Location"); !strings.HasSuffix(loc, "?error=expired_token") {
		t.Errorf("Location = %s", loc)
	}
}

func TestConfirm_MarksContactVerified(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})
	env.do(t, http.MethodGet, "/api/confirm?token="+env.mailer.lastToken, nil)

	c := env.contacts.byEmail["jane@example.com"]
	if c == nil || !c.EmailVerified {
		t.Error("contact not marked verified after confirmation")
	}
}

func TestUnsubscribe(t *testing.T) {
	t.Run("by token", func(t *testing.T) {
		env := newTestEnv(t)
		env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})
		c := env.contacts.byEmail["jane@example.com"]

		rec := env.do(t, http.MethodGet, "/api/unsubscribe?token="+c.UnsubscribeToken, nil)
		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "https://acme.example.com/unsubscribe-success" {
			t.Errorf("Location = %s", loc)
		}
		if !c.EmailUnsubscribed {
			t.Error("contact not marked unsubscribed")
		}
	})

	t.Run("by email", func(t *testing.T) {
		env := newTestEnv(t)
		env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})

		rec := env.do(t, http.MethodGet, "/api/unsubscribe?email=jane%40example.com", nil)
		if loc := rec.Header().Get("Location"); loc != "https://acme.example.com/unsubscribe-success" {
			t.Errorf("Location = %s", loc)
		}
		if !env.contacts.byEmail["jane@example.com"].EmailUnsubscribed {
			t.Error("contact not marked unsubscribed")
		}
	})

	t.Run("missing params", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/api/unsubscribe", nil)
		if loc := rec.Header().Get("Location"); !strings.HasSuffix(loc, "?reason=missing-params") {
			t.Errorf("Location = %s", loc)
		}
	})

	t.Run("unknown token still succeeds", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/api/unsubscribe?token=deadbeef", nil)
		if loc := rec.Header().Get("Location"); loc != "https://acme.example.com/unsubscribe-success" {
			t.Errorf("Location = %s", loc)
		}
	})
}

func hmacHex(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func webhookRequest(t *testing.T, env *testEnv, payload, signature string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/provider", strings.NewReader(payload))
	req.RemoteAddr = "203.0.113.9:54000"
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("svix-signature", signature)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestProviderWebhook(t *testing.T) {
	payload := `{"type":"email.bounced","data":{"email":"jane@example.com","bounce":{"type":"hard"}}}`

	t.Run("processes bounce without secret", func(t *testing.T) {
		env := newTestEnv(t)
		env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})

		rec := webhookRequest(t, env, payload, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["received"] != true || body["type"] != "email.bounced" {
			t.Errorf("body = %v", body)
		}
		if !env.contacts.byEmail["jane@example.com"].EmailBounced {
			t.Error("contact not marked bounced")
		}
	})

	t.Run("rejects bad signature", func(t *testing.T) {
		env := newTestEnv(t, withWebhookSecret("whsec_test"))

		rec := webhookRequest(t, env, payload, "0000")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("accepts valid signature", func(t *testing.T) {
		env := newTestEnv(t, withWebhookSecret("whsec_test"))
		env.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "jane@example.com"})

		rec := webhookRequest(t, env, payload, hmacHex(payload, "whsec_test"))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("skips events without email", func(t *testing.T) {
		env := newTestEnv(t)

		rec := webhookRequest(t, env, `{"type":"email.bounced","data":{}}`, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if decodeBody(t, rec)["skipped"] != "no_email" {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		env := newTestEnv(t)

		rec := webhookRequest(t, env, "{nope", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
