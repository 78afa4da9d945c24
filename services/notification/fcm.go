package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"carbooking/models"

	"firebase.google.com/go/v4/messaging"
)

// MessageSender is the part of *messaging.Client the FCM deliverer needs.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMDeliverer sends to Firebase Cloud Messaging device tokens.
type FCMDeliverer struct {
	Client MessageSender
}

func NewFCMDeliverer(client MessageSender) *FCMDeliverer {
	return &FCMDeliverer{Client: client}
}

func (d *FCMDeliverer) Deliver(ctx context.Context, payload models.NotificationPayload, target models.DeliveryTarget) error {
	var device struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(target, &device); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if device.Token == "" {
		return fmt.Errorf("%w: missing fcm token", ErrInvalidTarget)
	}

	msg := &messaging.Message{
		Token: device.Token,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: payload.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := d.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}
