package api

import (
	"net/http"

	"github.com/ignite/waitlist-api/internal/service/waitlist"
)

// Confirm handles GET /api/confirm: the click on the confirmation
// link. Every outcome is a 302 to a configured page since the caller
// is a browser, not an API client.
func (h *Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	outcome := h.waitlist.Confirm(r.Context(), r.URL.Query().Get("token"))

	successURL := h.redirectTarget(h.app.ConfirmSuccessURL)
	errorURL := h.redirectTarget(h.app.ConfirmErrorURL)

	var target string
	switch outcome {
	case waitlist.OutcomeConfirmed:
		target = successURL
	case waitlist.OutcomeAlreadyConfirmed:
		target = successURL + "?status=already_confirmed"
	default:
		// Remaining outcomes are error reasons the landing page shows.
		target = errorURL + "?error=" + string(outcome)
	}

	http.Redirect(w, r, target, http.StatusFound)
}
