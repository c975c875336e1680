package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("record not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrPartialBatch       = errors.New("batch partially applied")

	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrRestaurantExists   = errors.New("restaurant already exists")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a rejected field before any backend call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// FailedWrite is a single record whose write did not commit.
type FailedWrite struct {
	ID  string
	Err error
}

// PartialBatchError is returned when some writes of a multi-row batch failed.
// Writes that succeeded are not rolled back.
type PartialBatchError struct {
	Entity string
	Total  int
	Failed []FailedWrite
}

func (e *PartialBatchError) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		ids = append(ids, f.ID)
	}
	return fmt.Sprintf("%s reorder: %d of %d writes failed [%s]", e.Entity, len(e.Failed), e.Total, strings.Join(ids, ", "))
}

func (e *PartialBatchError) Is(target error) bool {
	return target == ErrPartialBatch
}

// FailedIDs lists the ids whose writes failed, in batch order.
func (e *PartialBatchError) FailedIDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		ids = append(ids, f.ID)
	}
	return ids
}
