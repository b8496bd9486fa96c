// Package auth implements the credential-lifecycle service: signup,
// login/logout, forgot/reset/change password and account deactivation.
// It owns the error taxonomy shared by the store implementation and the
// HTTP layer; handlers translate these values into status codes and all
// transport concerns (cookies, headers) stay out of this package.
package auth

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrEmailExists signals an email uniqueness violation at the store.
	ErrEmailExists = errors.New("email already exists")
	// ErrPhoneExists signals a phone uniqueness violation at the store.
	ErrPhoneExists = errors.New("phone already exists")
	// ErrUnavailable wraps store failures that are retryable (timeouts,
	// lost connections).  Handlers map it to 503, never leaking detail.
	ErrUnavailable = errors.New("store unavailable")

	// ErrInvalidCredentials covers both unknown email and wrong password
	// so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDeactivated rejects any operation on a deactivated
	// account, regardless of password correctness.
	ErrAccountDeactivated = errors.New("account is deactivated")
	// ErrForbidden rejects admin updates that would escalate privileges.
	ErrForbidden = errors.New("operation not allowed")
)

// ValidationError carries per-field messages for bad input.  It is
// always produced before any mutation, so a failed request leaves no
// partial writes behind.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
