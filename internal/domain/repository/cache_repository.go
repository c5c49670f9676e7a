package repository

import (
	"context"
	"time"
)

// CacheRepository - key/value cache for rendered query results
type CacheRepository interface {
	// Get returns nil, nil on a cache miss
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix removes every key starting with prefix and returns how many were removed
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
