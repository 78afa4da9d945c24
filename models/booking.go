package models

import "time"

// Booking is a reservation of one car model for a time window on a single date.
type Booking struct {
	ID             string    `bson:"id" json:"id"`                         // uuid assigned at creation
	Date           string    `bson:"date" json:"date"`                     // "YYYY-MM-DD"
	StartTime      string    `bson:"startTime" json:"startTime"`           // "HH:MM", inclusive
	EndTime        string    `bson:"endTime" json:"endTime"`               // "HH:MM", exclusive
	StartMinute    int       `bson:"startMinute" json:"-"`                 // minutes from midnight
	EndMinute      int       `bson:"endMinute" json:"-"`                   // minutes from midnight
	CarModel       string    `bson:"carModel" json:"carModel"`             // booked resource
	ConsultantName string    `bson:"consultantName" json:"consultantName"` // free text
	Location       string    `bson:"location" json:"location"`             // free text
	PasskeyHash    string    `bson:"passkeyHash" json:"-"`                 // bcrypt hash, never serialized
	Passkey        string    `bson:"-" json:"passkey,omitempty"`           // only echoed in the create response
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// CreateBookingRequest is the create payload. Times are checked by the booking service,
// which also accepts "24:00" as an end time.
type CreateBookingRequest struct {
	Date           string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime      string `json:"startTime" binding:"required"`
	EndTime        string `json:"endTime" binding:"required"`
	CarModel       string `json:"carModel" binding:"required"`
	ConsultantName string `json:"consultantName" binding:"required"`
	Location       string `json:"location" binding:"required"`
	Passkey        string `json:"passkey" binding:"required,max=72"` // bcrypt input limit
}

// CancelBookingRequest identifies a booking and proves ownership of it.
type CancelBookingRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	Passkey   string `json:"passkey" binding:"required"`
}
