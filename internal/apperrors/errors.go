package apperrors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"gorm.io/gorm"
)

// Kind classifies an application error
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindAccessDenied Kind = "access_denied"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindDependency   Kind = "dependency"
	KindConsistency  Kind = "consistency"
)

// Error is the typed error returned by the services and core packages.
// The api package translates it into a response.
type Error struct {
	Kind      Kind
	Message   string
	ChefID    uuid.UUID
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind so errors.Is(err, &Error{Kind: KindNotFound}) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Validation reports bad client input
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing recipe, user or relation
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// SubscriptionRequired is the premium gate denial. The chef id lets the
// client offer a subscribe action.
func SubscriptionRequired(chefID uuid.UUID) *Error {
	return &Error{
		Kind:    KindAccessDenied,
		Message: "Access denied: Premium Subscription Required",
		ChefID:  chefID,
	}
}

// Forbidden reports an authenticated caller acting outside their role
func Forbidden(msg string) *Error {
	return &Error{Kind: KindAccessDenied, Message: msg}
}

// Unauthorized reports missing or invalid credentials
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Conflict reports a uniqueness violation such as a duplicate email
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Dependency wraps a store or blob service failure
func Dependency(op string, err error) *Error {
	return &Error{Kind: KindDependency, Message: op + " failed", Retryable: true, Err: err}
}

// Consistency reports a paired write that failed and was rolled back
func Consistency(op string, err error) *Error {
	return &Error{Kind: KindConsistency, Message: op + " failed and was rolled back", Retryable: true, Err: err}
}

// Classify converts a raw store error into an *Error. Errors that are
// already typed pass through unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Message: op + ": record not found", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindConflict, Message: op + ": already exists", Err: err}
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		return Dependency(op, err)
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindDependency, Message: op + " canceled", Err: err}
	}
	return Dependency(op, err)
}

// KindOf returns the kind of err, or "" when err is not typed
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
