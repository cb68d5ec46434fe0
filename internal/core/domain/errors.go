package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUserInactive       = errors.New("account is disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidLogin replaces both ErrUserNotFound and ErrInvalidCredentials
	// at login when account existence must not be revealed.
	ErrInvalidLogin = fmt.Errorf("invalid email or password: %w", ErrInvalidCredentials)

	ErrTokenMissing = errors.New("token missing")
	ErrInvalidToken = errors.New("invalid or expired token")

	// Reasons wrapped by ErrInvalidToken. They are logged, never returned to clients.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenClaims    = errors.New("token claims do not match schema")

	ErrForbidden = errors.New("forbidden")

	ErrVendorNotFound    = errors.New("vendor profile not found")
	ErrRequestNotFound   = errors.New("license request not found")
	ErrRequestNotPending = errors.New("license request already reviewed")
)

// Issue is a single field-level validation failure.
type Issue struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// ValidationError aggregates every structural problem found in an input.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		msgs = append(msgs, strings.Join(is.Path, ".")+": "+is.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ForbiddenError is returned when an authenticated identity lacks a required role.
type ForbiddenError struct {
	Allowed []Role
}

func (e *ForbiddenError) Error() string {
	names := make([]string, len(e.Allowed))
	for i, r := range e.Allowed {
		names[i] = string(r)
	}
	return fmt.Sprintf("Forbidden: requires one of [%s]", strings.Join(names, ", "))
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// InvalidToken wraps reason so that errors.Is matches both ErrInvalidToken and reason.
func InvalidToken(reason error) error {
	return fmt.Errorf("%w: %w", ErrInvalidToken, reason)
}

// TransactionError reports a store failure that rolled back a multi-step write.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *TransactionError) Unwrap() error { return e.Err }

// OperationError carries the client-facing message used when err is unexpected.
type OperationError struct {
	Message string
	Err     error
}

func (e *OperationError) Error() string { return e.Message + ": " + e.Err.Error() }
func (e *OperationError) Unwrap() error { return e.Err }

// Failed annotates err with the message shown to clients on a 500.
func Failed(message string, err error) error {
	return &OperationError{Message: message, Err: err}
}
