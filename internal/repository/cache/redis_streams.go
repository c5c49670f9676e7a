package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ais-service/internal/config"
)

// NewRedisStreams creates a dedicated client for stream consumers. XREADGROUP blocks for up to
// blockTimeout, so the read timeout is raised above it and the cache pool is left alone.
func NewRedisStreams(cfg *config.RedisConfig, blockTimeout time.Duration, logger *zap.Logger) (*redis.Client, error) {
	client, err := connect(cfg, blockTimeout+5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis streams: %w", err)
	}

	logger.Info("Redis Streams connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	return client, nil
}
