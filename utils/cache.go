// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"carbooking/config"

	"github.com/go-redis/redis/v8"
)

// InitLockClient connects the Redis client used for booking locks.
func InitLockClient(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLockDB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (locks): %w", err)
	}
	return client, nil
}
