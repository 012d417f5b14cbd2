package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ignite/waitlist-api/internal/pkg/httputil"
	"github.com/ignite/waitlist-api/internal/webhook"
)

type webhookResponse struct {
	Received bool   `json:"received"`
	Type     string `json:"type,omitempty"`
	Email    string `json:"email,omitempty"`
	Skipped  string `json:"skipped,omitempty"`
}

// ProviderWebhook handles POST /api/webhooks/provider. Signature
// verification runs over the raw body before parsing. Once a payload
// is authenticated the response is 200 no matter what, so the
// provider never retries events we have already logged.
func (h *Handlers) ProviderWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.ErrorCode(w, http.StatusBadRequest, "invalid_body", "Could not read request body")
		return
	}

	if h.webhookSecret != "" {
		signature := r.Header.Get("svix-signature")
		if signature == "" {
			signature = r.Header.Get("resend-signature")
		}
		if !webhook.VerifySignature(body, signature, h.webhookSecret) {
			httputil.ErrorCode(w, http.StatusUnauthorized, "invalid_signature", "Invalid signature")
			return
		}
	}

	var ev webhook.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		httputil.ErrorCode(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	email := ev.EmailAddress()
	if email == "" {
		httputil.OK(w, webhookResponse{Received: true, Skipped: "no_email"})
		return
	}

	h.webhooks.Process(r.Context(), &ev)
	httputil.OK(w, webhookResponse{Received: true, Type: ev.Type, Email: email})
}
