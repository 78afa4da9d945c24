package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"carbooking/models"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// WebPushDeliverer sends VAPID signed web push messages.
type WebPushDeliverer struct {
	PublicKey  string
	PrivateKey string
	Subscriber string
	TTL        int
	HTTPClient webpush.HTTPClient
}

func NewWebPushDeliverer(publicKey, privateKey, subscriber string) *WebPushDeliverer {
	return &WebPushDeliverer{
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		Subscriber: subscriber,
		TTL:        60,
	}
}

func (d *WebPushDeliverer) Deliver(ctx context.Context, payload models.NotificationPayload, target models.DeliveryTarget) error {
	var sub webpush.Subscription
	if err := json.Unmarshal(target, &sub); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	message, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, message, &sub, &webpush.Options{
		Subscriber:      d.Subscriber,
		VAPIDPublicKey:  d.PublicKey,
		VAPIDPrivateKey: d.PrivateKey,
		TTL:             d.TTL,
		HTTPClient:      d.HTTPClient,
	})
	if err != nil {
		return fmt.Errorf("web push to %s failed: %w", sub.Endpoint, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("web push to %s rejected with status %d", sub.Endpoint, resp.StatusCode)
	}
	return nil
}
