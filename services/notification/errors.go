package notification

import (
	"errors"
	"fmt"

	"carbooking/models"
)

var (
	// ErrInvalidTarget is returned when a subscription is not well-formed JSON, or when a
	// deliverer cannot read the fields it needs from it.
	ErrInvalidTarget = errors.New("invalid delivery target")
	// ErrUnsupportedTarget is returned when no deliverer understands a target.
	ErrUnsupportedTarget = errors.New("unsupported delivery target")
	// ErrDeliveryTimeout is recorded for attempts that outlive the delivery timeout.
	ErrDeliveryTimeout = errors.New("delivery timed out")
)

// DeliveryError aggregates the failed attempts of one broadcast.
type DeliveryError struct {
	Total    int
	Failures []models.DeliveryResult
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%d of %d notifications failed", len(e.Failures), e.Total)
}
