package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	bookingRepo "carbooking/database/repository/booking"
	"carbooking/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CreateBooking validates req, checks it against the car's other bookings on the same
// date and stores it. The check and the insert run under a per car+date lock.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	booking, err := buildBooking(req)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Passkey), s.passkeyCost())
	if err != nil {
		return nil, newValidationError("passkey", err.Error())
	}
	booking.PasskeyHash = string(hash)

	held, unlock, err := s.Locker.Lock(ctx, lockKey(booking.CarModel, booking.Date))
	if err != nil {
		return nil, &StoreError{Op: "lock car schedule", Err: err}
	}
	defer unlock()

	// The check and the insert run on held so they stop before the lock can lapse.
	existing, err := s.Repo.GetByCarAndDate(held, booking.CarModel, booking.Date)
	if err != nil {
		return nil, &StoreError{Op: "load existing bookings", Err: err}
	}
	if conflict, found := FindOverlap(IntervalOf(*booking), existing); found {
		s.Logger.Info("Booking rejected, window overlaps",
			zap.String("carModel", booking.CarModel),
			zap.String("date", booking.Date),
			zap.String("conflictId", conflict.ID))
		return nil, &ConflictError{Existing: conflict}
	}

	booking.ID = uuid.New().String()
	booking.CreatedAt = time.Now().UTC()
	if err := s.Repo.Insert(held, booking); err != nil {
		return nil, &StoreError{Op: "insert booking", Err: err}
	}

	s.Logger.Info("Booking created",
		zap.String("bookingId", booking.ID),
		zap.String("carModel", booking.CarModel),
		zap.String("date", booking.Date),
		zap.String("window", booking.StartTime+"-"+booking.EndTime))

	// The caller supplied the passkey; hand it back once so the client can keep it.
	booking.Passkey = req.Passkey
	return booking, nil
}

// ListBookings returns all bookings ordered by date and start time.
func (s *DefaultBookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.Repo.List(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list bookings", Err: err}
	}
	for i := range bookings {
		bookings[i].Passkey = ""
	}
	return bookings, nil
}

// CancelBooking deletes the booking when passkey matches the one it was created with.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, passkey string) error {
	bookingID = strings.TrimSpace(bookingID)
	if err := validateRequest(models.CancelBookingRequest{BookingID: bookingID, Passkey: passkey}); err != nil {
		return err
	}

	booking, err := s.Repo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return &StoreError{Op: "load booking", Err: err}
	}

	if bcrypt.CompareHashAndPassword([]byte(booking.PasskeyHash), []byte(passkey)) != nil {
		s.Logger.Warn("Cancel rejected, passkey mismatch", zap.String("bookingId", bookingID))
		return ErrUnauthorized
	}

	err = s.Repo.DeleteByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		// Someone else cancelled it between lookup and delete.
		return ErrNotFound
	}
	if err != nil {
		return &StoreError{Op: "delete booking", Err: err}
	}

	s.Logger.Info("Booking cancelled", zap.String("bookingId", bookingID))
	return nil
}

func (s *DefaultBookingService) passkeyCost() int {
	if s.PasskeyCost < bcrypt.MinCost || s.PasskeyCost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return s.PasskeyCost
}

func lockKey(carModel, date string) string {
	return carModel + "|" + date
}

// buildBooking trims req, checks its tags and the time window and returns an unsaved
// booking.
func buildBooking(req models.CreateBookingRequest) (*models.Booking, error) {
	req.Date = strings.TrimSpace(req.Date)
	req.StartTime = strings.TrimSpace(req.StartTime)
	req.EndTime = strings.TrimSpace(req.EndTime)
	req.CarModel = strings.TrimSpace(req.CarModel)
	req.ConsultantName = strings.TrimSpace(req.ConsultantName)
	req.Location = strings.TrimSpace(req.Location)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	start, err := ParseClock(req.StartTime)
	if err != nil {
		return nil, newValidationError("startTime", err.Error())
	}
	end, err := ParseClock(req.EndTime)
	if err != nil {
		return nil, newValidationError("endTime", err.Error())
	}
	window := Interval{Start: start, End: end}
	if !window.Valid() {
		return nil, newValidationError("endTime", "must be after startTime")
	}

	return &models.Booking{
		Date:           req.Date,
		StartTime:      FormatClock(start),
		EndTime:        FormatClock(end),
		StartMinute:    start,
		EndMinute:      end,
		CarModel:       req.CarModel,
		ConsultantName: req.ConsultantName,
		Location:       req.Location,
	}, nil
}
