// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	ListBookings  gin.HandlerFunc
	CreateBooking gin.HandlerFunc
	CancelBooking gin.HandlerFunc

	// Push notification endpoints
	Subscribe gin.HandlerFunc
	Notify    gin.HandlerFunc

	// Health reports backend connectivity.
	Health gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from the concrete handlers.
func NewHandlerBundle(bh *BookingHandler, nh *NotificationHandler, health gin.HandlerFunc) *HandlerBundle {
	return &HandlerBundle{
		ListBookings:  bh.ListBookings,
		CreateBooking: bh.CreateBooking,
		CancelBooking: bh.CancelBooking,
		Subscribe:     nh.Subscribe,
		Notify:        nh.Notify,
		Health:        health,
	}
}
