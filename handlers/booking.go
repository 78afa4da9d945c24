package handlers

import (
	"errors"
	"net/http"

	"carbooking/models"
	"carbooking/services/booking"
	"carbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking service over HTTP.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// ListBookings returns every booking.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.Service.ListBookings(c.Request.Context())
	if err != nil {
		getLogger(c).Error("Failed to fetch bookings", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Error fetching bookings", "")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateBooking stores a booking unless the car is taken for an overlapping window.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", err.Error())
		return
	}

	created, err := h.Service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		var validationErr *booking.ValidationError
		var conflictErr *booking.ConflictError
		switch {
		case errors.As(err, &validationErr):
			utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", validationErr.Error())
		case errors.As(err, &conflictErr):
			utils.JSONError(c, http.StatusBadRequest, "Car is already booked for this time.", conflictErr.Error())
		default:
			getLogger(c).Error("Failed to create booking", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Error submitting booking", "")
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

type cancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CancelBooking deletes a booking after checking its passkey.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, cancelResponse{Success: false, Message: "Invalid cancel request"})
		return
	}

	err := h.Service.CancelBooking(c.Request.Context(), req.BookingID, req.Passkey)
	var validationErr *booking.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, cancelResponse{Success: true, Message: "Booking canceled successfully"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, cancelResponse{Success: false, Message: validationErr.Error()})
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, cancelResponse{Success: false, Message: "Booking not found"})
	case errors.Is(err, booking.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, cancelResponse{Success: false, Message: "Invalid passkey"})
	default:
		getLogger(c).Error("Failed to cancel booking", zap.String("bookingId", req.BookingID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, cancelResponse{Success: false, Message: "Error canceling booking"})
	}
}
