package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
	KindUnavailable
	KindUpstream
	KindStore
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	case KindUpstream:
		return "upstream"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// AppError carries a short user-facing Message. Err holds the underlying
// cause for logs and is never shown to callers.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func AuthError(msg string) *AppError {
	return &AppError{Kind: KindAuth, Message: msg}
}

func ForbiddenError(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func NotFoundError(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func ConflictError(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func RateLimitError(msg string) *AppError {
	return &AppError{Kind: KindRateLimited, Message: msg}
}

func UnavailableError(msg string) *AppError {
	return &AppError{Kind: KindUnavailable, Message: msg}
}

func UpstreamError(msg string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Message: msg, Err: err}
}

// StoreError wraps a backing-store failure. msg is what the caller sees,
// e.g. "Failed to create comment".
func StoreError(msg string, err error) *AppError {
	return &AppError{Kind: KindStore, Message: msg, Err: err}
}

// KindOf returns the kind of an AppError anywhere in err's chain, or
// KindStore for any other non-nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

// asAppError passes AppErrors through and wraps anything else as a StoreError.
func asAppError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return StoreError(msg, err)
}
