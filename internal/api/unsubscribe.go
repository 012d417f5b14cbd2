package api

import (
	"errors"
	"net/http"

	"github.com/ignite/waitlist-api/internal/service/contacts"
)

// Unsubscribe handles GET /api/unsubscribe: the one-click link in
// every email. Token identification is preferred; a bare email
// parameter is accepted for legacy links. Outcomes are 302 redirects
// with a reason query parameter on failure.
func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	email := r.URL.Query().Get("email")

	successURL := h.redirectTarget(h.app.UnsubscribeSuccessURL)
	errorURL := h.redirectTarget(h.app.UnsubscribeErrorURL)

	err := h.contacts.Unsubscribe(r.Context(), token, email)
	switch {
	case errors.Is(err, contacts.ErrMissingParams):
		http.Redirect(w, r, errorURL+"?reason=missing-params", http.StatusFound)
	case err != nil:
		http.Redirect(w, r, errorURL+"?reason=database-error", http.StatusFound)
	default:
		http.Redirect(w, r, successURL, http.StatusFound)
	}
}
