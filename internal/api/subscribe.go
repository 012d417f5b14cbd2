package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ignite/waitlist-api/internal/pkg/httputil"
	"github.com/ignite/waitlist-api/internal/service/waitlist"
)

type subscribeRequest struct {
	Email          string `json:"email"`
	Source         string `json:"source"`
	TurnstileToken string `json:"turnstileToken"`
}

type subscribeResponse struct {
	Success              bool   `json:"success"`
	Message              string `json:"message"`
	RequiresConfirmation bool   `json:"requiresConfirmation,omitempty"`
}

// Subscribe handles POST /api/subscribe: rate limit, captcha, then the
// signup workflow.
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if h.limiter != nil {
		res := h.limiter.Allow(r.Context(), ip)
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset, 10))

		if !res.Allowed {
			httputil.JSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:      "rate_limited",
				Message:    "Too many requests. Please try again later.",
				RetryAfter: int(res.RetryAfter.Seconds()),
			})
			return
		}
	}

	var req subscribeRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	if h.captcha != nil {
		if req.TurnstileToken == "" {
			httputil.ErrorCode(w, http.StatusBadRequest, "captcha_required",
				"Please complete the captcha verification.")
			return
		}
		ok, err := h.captcha.Verify(r.Context(), req.TurnstileToken, ip)
		if err != nil {
			httputil.InternalError(w, err)
			return
		}
		if !ok {
			httputil.ErrorCode(w, http.StatusBadRequest, "captcha_failed",
				"Captcha verification failed. Please try again.")
			return
		}
	}

	result, err := h.waitlist.Signup(r.Context(), waitlist.SignupRequest{
		Email:  req.Email,
		Source: req.Source,
	})
	switch {
	case errors.Is(err, waitlist.ErrInvalidEmail):
		httputil.ErrorCode(w, http.StatusBadRequest, "invalid_email", "Valid email is required")
		return
	case errors.Is(err, waitlist.ErrAlreadySubscribed):
		httputil.ErrorCode(w, http.StatusConflict, "already_subscribed", "You're already on the waitlist!")
		return
	case err != nil:
		httputil.InternalError(w, err)
		return
	}

	resp := subscribeResponse{Success: true}
	switch {
	case result.Resent:
		resp.Message = "We've resent your confirmation email. Please check your inbox."
		resp.RequiresConfirmation = true
	case result.RequiresConfirmation:
		resp.Message = "Almost there! Please check your inbox and confirm your email."
		resp.RequiresConfirmation = true
	default:
		resp.Message = "You're on the list! Check your inbox for confirmation."
	}
	httputil.OK(w, resp)
}
