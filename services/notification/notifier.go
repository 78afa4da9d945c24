package notification

import (
	"context"
	"errors"
	"sync"

	"carbooking/models"

	"go.uber.org/zap"
)

// Subscribe adds target to the registry.
func (s *DefaultNotificationService) Subscribe(ctx context.Context, target models.DeliveryTarget) error {
	if err := s.registry.Register(ctx, target); err != nil {
		return err
	}
	s.logger.Debug("Push target registered", zap.Int("bytes", len(target)))
	return nil
}

// Broadcast delivers payload to every registered target in parallel. Each attempt gets
// its own timeout. The report always lists every target; the error is a *DeliveryError
// when at least one attempt failed.
func (s *DefaultNotificationService) Broadcast(ctx context.Context, payload models.NotificationPayload) (models.BroadcastReport, error) {
	targets, err := s.registry.All(ctx)
	if err != nil {
		return models.BroadcastReport{}, err
	}

	report := models.BroadcastReport{
		Total:   len(targets),
		Results: make([]models.DeliveryResult, len(targets)),
	}
	if len(targets) == 0 {
		return report, nil
	}

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target models.DeliveryTarget) {
			defer wg.Done()
			result := models.DeliveryResult{Target: target, OK: true}
			if err := s.deliverOne(ctx, payload, target); err != nil {
				result.OK = false
				result.Error = err.Error()
			}
			report.Results[i] = result
		}(i, target)
	}
	wg.Wait()

	var failures []models.DeliveryResult
	for _, r := range report.Results {
		if r.OK {
			report.Delivered++
			continue
		}
		report.Failed++
		failures = append(failures, r)
		s.logger.Warn("Push delivery failed", zap.String("error", r.Error), zap.ByteString("target", r.Target))
	}

	s.logger.Info("Broadcast finished",
		zap.String("title", payload.Title),
		zap.Int("total", report.Total),
		zap.Int("delivered", report.Delivered),
		zap.Int("failed", report.Failed))

	if len(failures) > 0 {
		return report, &DeliveryError{Total: report.Total, Failures: failures}
	}
	return report, nil
}

// deliverOne returns once the delivery finishes or its timeout fires, whichever is first,
// so a deliverer that ignores its context cannot hold up the broadcast.
func (s *DefaultNotificationService) deliverOne(ctx context.Context, payload models.NotificationPayload, target models.DeliveryTarget) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.deliverer.Deliver(ctx, payload, target)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrDeliveryTimeout
		}
		return ctx.Err()
	}
}
