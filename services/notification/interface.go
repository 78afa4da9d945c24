package notification

import (
	"context"
	"fmt"
	"time"

	"carbooking/models"

	"go.uber.org/zap"
)

// NotificationService registers push targets and broadcasts to them.
type NotificationService interface {
	Subscribe(ctx context.Context, target models.DeliveryTarget) error
	Broadcast(ctx context.Context, payload models.NotificationPayload) (models.BroadcastReport, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	registry  Registry
	deliverer Deliverer
	timeout   time.Duration
	logger    *zap.Logger
}

func NewDefaultNotificationService(
	registry Registry,
	deliverer Deliverer,
	timeout time.Duration,
	logger *zap.Logger,
) (*DefaultNotificationService, error) {
	if registry == nil || deliverer == nil {
		return nil, fmt.Errorf("notification service initialization error: registry or deliverer is nil")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{
		registry:  registry,
		deliverer: deliverer,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// DefaultPayload is sent when a broadcast is triggered without content.
func DefaultPayload() models.NotificationPayload {
	return models.NotificationPayload{
		Title: "New Notification",
		Body:  "This is a test notification!",
	}
}
