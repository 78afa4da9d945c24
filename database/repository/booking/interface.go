// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"

	"carbooking/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no booking matches the given id.
var ErrNotFound = errors.New("booking not found")

type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Booking, error)
	GetByCarAndDate(ctx context.Context, carModel, date string) ([]models.Booking, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB backed BookingRepository on db.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
