package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrEventNotFound        = errors.New("event not found")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrSoldOut              = errors.New("event sold out")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrAlreadyUsed          = errors.New("ticket already used")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrConflict             = errors.New("conditional update lost a race")
	ErrDuplicateCode        = errors.New("duplicate ticket code")
	ErrDependency           = errors.New("dependency failure")
	ErrStorage              = errors.New("storage failure")
)

type ValidationError struct {
	Field  string
	Reason string
	Cause  error
}

func NewValidationError(field, reason string, cause error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Cause: cause}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// CapacityError reports a reservation that does not fit. Remaining is the count at the time of the check.
type CapacityError struct {
	EventID   uuid.UUID
	Requested int
	Remaining int
}

func (e *CapacityError) Error() string {
	if e.Remaining <= 0 {
		return "event sold out"
	}
	return fmt.Sprintf("requested %d tickets but only %d remaining", e.Requested, e.Remaining)
}

func (e *CapacityError) Is(target error) bool {
	switch target {
	case ErrCapacityExceeded:
		return true
	case ErrSoldOut:
		return e.Remaining <= 0
	case ErrInsufficientCapacity:
		return e.Remaining > 0
	}
	return false
}

type AlreadyUsedError struct {
	Code        string
	ValidatedAt time.Time
	ValidatedBy string
}

func (e *AlreadyUsedError) Error() string {
	if e.ValidatedAt.IsZero() {
		return fmt.Sprintf("ticket %s already used", e.Code)
	}
	return fmt.Sprintf("ticket %s already used at %s by %s", e.Code, e.ValidatedAt.Format(time.RFC3339), e.ValidatedBy)
}

func (e *AlreadyUsedError) Is(target error) bool {
	return target == ErrAlreadyUsed
}

// DependencyError wraps a failure of an external collaborator at a named stage.
type DependencyError struct {
	Stage string
	Err   error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *DependencyError) Is(target error) bool {
	return target == ErrDependency
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// StorageError marks err as a retryable storage failure while keeping it inspectable.
func StorageError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorage, err))
}
