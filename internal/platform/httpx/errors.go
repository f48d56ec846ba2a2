package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/schedulo/schedulo/internal/shared"
)

// RespondError maps the internal error taxonomy to an HTTP error envelope.
// Authentication failures and internal errors carry a fixed message so that
// token internals never leak; permission denials keep their domain-level
// reason.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	write(w, Envelope{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      r.URL.Path,
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrAuthentication):
		return http.StatusUnauthorized, shared.ErrAuthentication.Error()
	case errors.Is(err, shared.ErrPermissionDenied):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, shared.ErrRateLimited):
		return http.StatusTooManyRequests, shared.ErrRateLimited.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
