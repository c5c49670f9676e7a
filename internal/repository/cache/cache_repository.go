package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ais-service/internal/domain/repository"
)

// scanBatch - keys requested per SCAN round and removed per UNLINK
const scanBatch = 500

type cacheRepository struct {
	client redis.Cmdable
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return NewCacheRepositoryWithClient(redis.Client(), redis.logger)
}

// NewCacheRepositoryWithClient wraps an existing client (cluster, ring or a test server)
func NewCacheRepositoryWithClient(client redis.Cmdable, logger *zap.Logger) repository.CacheRepository {
	return &cacheRepository{
		client: client,
		logger: logger.With(zap.String("component", "response-cache")),
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// DeletePrefix walks the keyspace with SCAN, never KEYS, and unlinks matches in batches
func (r *cacheRepository) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if prefix == "" {
		return 0, fmt.Errorf("cache purge: empty prefix")
	}

	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return removed, fmt.Errorf("cache scan %s: %w", prefix, err)
		}
		if len(keys) > 0 {
			n, err := r.client.Unlink(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("cache unlink %s: %w", prefix, err)
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.logger.Debug("Cache purged", zap.String("prefix", prefix), zap.Int("removed", removed))
	return removed, nil
}
