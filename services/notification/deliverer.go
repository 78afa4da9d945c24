package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"carbooking/models"

	"go.uber.org/zap"
)

// Deliverer pushes one payload to one target.
type Deliverer interface {
	Deliver(ctx context.Context, payload models.NotificationPayload, target models.DeliveryTarget) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, payload models.NotificationPayload, target models.DeliveryTarget) error

func (f DelivererFunc) Deliver(ctx context.Context, payload models.NotificationPayload, target models.DeliveryTarget) error {
	return f(ctx, payload, target)
}

// RoutingDeliverer picks a channel from the shape of the target: documents with an
// "endpoint" are web push subscriptions, documents with a "token" are FCM devices.
type RoutingDeliverer struct {
	WebPush Deliverer
	FCM     Deliverer
}

func (r *RoutingDeliverer) Deliver(ctx context.Context, payload models.NotificationPayload, target models.DeliveryTarget) error {
	var shape struct {
		Endpoint string `json:"endpoint"`
		Token    string `json:"token"`
	}
	if err := json.Unmarshal(target, &shape); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}

	switch {
	case shape.Endpoint != "":
		if r.WebPush == nil {
			return fmt.Errorf("%w: web push is not configured", ErrUnsupportedTarget)
		}
		return r.WebPush.Deliver(ctx, payload, target)
	case shape.Token != "":
		if r.FCM == nil {
			return fmt.Errorf("%w: fcm is not configured", ErrUnsupportedTarget)
		}
		return r.FCM.Deliver(ctx, payload, target)
	default:
		return ErrUnsupportedTarget
	}
}

// LogDeliverer only logs. It stands in for a channel whose credentials are missing.
type LogDeliverer struct {
	Logger *zap.Logger
}

func (d *LogDeliverer) Deliver(_ context.Context, payload models.NotificationPayload, target models.DeliveryTarget) error {
	d.Logger.Info("Push delivery skipped, channel not configured",
		zap.String("title", payload.Title),
		zap.ByteString("target", target))
	return nil
}
