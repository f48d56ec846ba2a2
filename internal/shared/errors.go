package shared

import "errors"

var (
	// ErrNotFound indicates the referenced resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict indicates a uniqueness violation such as a duplicate enrollment.
	ErrConflict = errors.New("duplicate entry")
	// ErrValidation indicates a malformed or incomplete request payload.
	ErrValidation = errors.New("validation failed")
	// ErrAuthentication covers bad credentials and every token failure kind.
	ErrAuthentication = errors.New("authentication failed")
	// ErrPermissionDenied indicates an insufficient role or class membership.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrRateLimited indicates too many login attempts in the current window.
	ErrRateLimited = errors.New("too many attempts")
)
