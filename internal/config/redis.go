package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// OpenRedis returns nil when no address is configured; the post cache is then disabled.
func OpenRedis(ctx context.Context, conf Redis, log *zap.Logger) (*redis.Client, error) {
	if conf.Addr == "" {
		log.Info("REDIS_ADDR not set, post cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info("Connected to Redis", zap.String("addr", conf.Addr), zap.Int("db", conf.DB))
	return client, nil
}
