package routes

import (
	"carbooking/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/bookings", hb.ListBookings)
		api.POST("/bookings", hb.CreateBooking)
		api.POST("/cancel-booking", hb.CancelBooking)
	}
}
