package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carbooking/models"

	"github.com/hibiken/asynq"
)

const TypeBroadcast = "notification:broadcast"

// NewBroadcastTask builds a task that fires the broadcast at fireAt. Broadcasts are best
// effort, so the task is never retried.
func NewBroadcastTask(payload models.NotificationPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBroadcast, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.MaxRetry(0)}

	return task, opts, nil
}

// BroadcastScheduler queues a broadcast for later delivery.
type BroadcastScheduler interface {
	Schedule(ctx context.Context, payload models.NotificationPayload, fireAt time.Time) (string, error)
}

// AsynqScheduler enqueues broadcast tasks on Redis.
type AsynqScheduler struct {
	Client *asynq.Client
}

func NewAsynqScheduler(opt asynq.RedisConnOpt) *AsynqScheduler {
	return &AsynqScheduler{Client: asynq.NewClient(opt)}
}

func (s *AsynqScheduler) Schedule(ctx context.Context, payload models.NotificationPayload, fireAt time.Time) (string, error) {
	task, opts, err := NewBroadcastTask(payload, fireAt)
	if err != nil {
		return "", fmt.Errorf("failed to build broadcast task: %w", err)
	}
	info, err := s.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue broadcast: %w", err)
	}
	return info.ID, nil
}

func (s *AsynqScheduler) Close() error {
	return s.Client.Close()
}
