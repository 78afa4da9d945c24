package models

import (
	"encoding/json"
	"time"
)

// DeliveryTarget is a client supplied push subscription. Its contents are opaque to the
// registry; only deliverers look inside.
type DeliveryTarget json.RawMessage

// MarshalJSON keeps the raw subscription document intact.
func (t DeliveryTarget) MarshalJSON() ([]byte, error) {
	if len(t) == 0 {
		return []byte("null"), nil
	}
	return t, nil
}

// UnmarshalJSON stores a copy of the raw subscription document.
func (t *DeliveryTarget) UnmarshalJSON(data []byte) error {
	*t = append((*t)[:0], data...)
	return nil
}

// PushSubscription is the durable form of a DeliveryTarget.
type PushSubscription struct {
	ID        string    `bson:"id" json:"id"`         // identity hash of the target
	Target    string    `bson:"target" json:"target"` // raw JSON document
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// NotificationPayload is the content pushed to every delivery target.
type NotificationPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// NotifyRequest is the broadcast trigger payload. SendAt schedules the broadcast.
type NotifyRequest struct {
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
	SendAt *time.Time        `json:"sendAt,omitempty"`
}

// DeliveryResult is the outcome of one delivery attempt.
type DeliveryResult struct {
	Target DeliveryTarget `json:"target"`
	OK     bool           `json:"ok"`
	Error  string         `json:"error,omitempty"`
}

// BroadcastReport summarises a fan-out.
type BroadcastReport struct {
	Total     int              `json:"total"`
	Delivered int              `json:"delivered"`
	Failed    int              `json:"failed"`
	Results   []DeliveryResult `json:"results"`
}
