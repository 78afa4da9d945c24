package booking

import (
	"context"

	bookingRepo "carbooking/database/repository/booking"
	"carbooking/models"

	"go.uber.org/zap"
)

// BookingService manages the lifecycle of car bookings.
type BookingService interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, passkey string) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo        bookingRepo.BookingRepository
	Locker      KeyLocker
	PasskeyCost int
	Logger      *zap.Logger
}

// NewDefaultBookingService wires a service with an in-process locker when none is given.
func NewDefaultBookingService(repo bookingRepo.BookingRepository, locker KeyLocker, passkeyCost int, logger *zap.Logger) *DefaultBookingService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Repo:        repo,
		Locker:      locker,
		PasskeyCost: passkeyCost,
		Logger:      logger,
	}
}
