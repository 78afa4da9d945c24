package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carbooking/models"
	"carbooking/services/notification"
	"carbooking/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitBroadcastWorker runs the scheduled broadcast worker in the background.
func InitBroadcastWorker(redisOpts asynq.RedisClientOpt, notifSvc notification.NotificationService, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBroadcast, HandleBroadcastTask(notifSvc, logger))

	go func() {
		logger.Info("[BroadcastWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("[BroadcastWorker] Failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("[BroadcastWorker] Max retry attempts reached, scheduled broadcasts disabled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}

// HandleBroadcastTask decodes the payload and runs the broadcast.
func HandleBroadcastTask(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.NotificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("[BroadcastHandler] Invalid payload", zap.Error(err))
			return fmt.Errorf("invalid broadcast payload: %v: %w", err, asynq.SkipRetry)
		}

		logger.Info("[BroadcastHandler] Running scheduled broadcast", zap.String("title", p.Title))
		report, err := notifSvc.Broadcast(ctx, p)
		if err != nil {
			logger.Warn("[BroadcastHandler] Broadcast finished with failures",
				zap.Int("failed", report.Failed), zap.Int("total", report.Total), zap.Error(err))
			return err
		}
		return nil
	}
}
