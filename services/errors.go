package services

import (
	"errors"
	"fmt"
)

// Sentinel errors used with errors.Is across the sync engine
var (
	ErrNotFound            = errors.New("case not found")
	ErrAlreadyBootstrapped = errors.New("case already bootstrapped")
	ErrAlreadyDeleted      = errors.New("case already deleted")
)

// ValidationError rejects a payload before any write is attempted
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError means the case is absent from both stores
type NotFoundError struct {
	CaseID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("case %s not found", e.CaseID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AlreadyBootstrappedError signals the one-way bootstrap latch is set
type AlreadyBootstrappedError struct {
	CaseID string
}

func (e *AlreadyBootstrappedError) Error() string {
	return fmt.Sprintf("case %s was already bootstrapped from the registry", e.CaseID)
}

func (e *AlreadyBootstrappedError) Is(target error) bool { return target == ErrAlreadyBootstrapped }

// DateFormatError names the date string that could not be normalized.
// Callers decide whether to drop the field or reject the whole write.
type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("unrecognized date format: %q", e.Value)
}

// External service error categories (registry scraper)
const (
	ExternalErrTimeout    = "timeout"
	ExternalErrConnection = "connection"
	ExternalErrNotFound   = "not_found"
	ExternalErrValidation = "validation"
	ExternalErrOther      = "other"
)

// ExternalServiceError wraps failures from external collaborators with a
// category that maps to a localized user-facing message and status code
type ExternalServiceError struct {
	Service  string
	Category string
	Err      error
}

func (e *ExternalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error (%s): %v", e.Service, e.Category, e.Err)
	}
	return fmt.Sprintf("%s error (%s)", e.Service, e.Category)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// LocaleKey returns the i18n key for the category's user-facing message
func (e *ExternalServiceError) LocaleKey() string {
	return "sync.errors." + e.Category
}

// PartialWriteError records a secondary effect that failed after the
// primary store write succeeded. It is advisory: it never fails the
// overall operation, only shows up in the operations summary.
type PartialWriteError struct {
	Effect string
	Err    error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("secondary effect %s failed: %v", e.Effect, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
