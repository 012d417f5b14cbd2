package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/ignite/waitlist-api/internal/pkg/logger"
)

// ErrorResponse is the standard error envelope. Code is a stable,
// machine-readable string ("captcha_failed", "already_subscribed");
// Message is human-readable copy.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}

// OK writes a 200 response with the given data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// ErrorCode writes an error envelope with a stable code and message.
func ErrorCode(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorResponse{Error: code, Message: message})
}

// MethodNotAllowed writes the standard 405 envelope.
func MethodNotAllowed(w http.ResponseWriter) {
	ErrorCode(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
}

// InternalError writes a 500 with a generic message; the real error is
// logged, never leaked to the client.
func InternalError(w http.ResponseWriter, err error) {
	logger.Error("internal error", "error", err)
	ErrorCode(w, http.StatusInternalServerError, "internal_error", "Something went wrong")
}

// Decode reads the JSON request body into dst. Writes a 400 response
// and returns false on parse failure.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		ErrorCode(w, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return false
	}
	return true
}
