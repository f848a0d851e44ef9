// Package redis builds the optional Redis client backing the user cache.
package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"auth_backend/internal/platform/config"
)

// NewRedisClient connects to the configured Redis instance and verifies the
// connection with a ping. The caller decides whether an error is fatal; the
// server runs without the cache when Redis is absent.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	addr := cfg.RedisHost + ":" + cfg.RedisPort

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	// 接続確認
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
