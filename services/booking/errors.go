package booking

import (
	"errors"
	"fmt"

	"carbooking/models"
)

var (
	// ErrNotFound is returned when the booking id is unknown.
	ErrNotFound = errors.New("booking not found")
	// ErrUnauthorized is returned when the passkey does not match.
	ErrUnauthorized = errors.New("invalid passkey")
)

// ValidationError reports a malformed booking request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError reports that the requested window overlaps an existing booking.
type ConflictError struct {
	Existing models.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("car %s is already booked on %s from %s to %s",
		e.Existing.CarModel, e.Existing.Date, e.Existing.StartTime, e.Existing.EndTime)
}

// StoreError wraps a failure of the booking store or the key locker.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
