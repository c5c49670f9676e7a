package repository

import (
	"context"

	"github.com/ais-service/internal/domain"
)

// SnapshotSource loads the dataset an index generation is built from
type SnapshotSource interface {
	Load(ctx context.Context) (*domain.Dataset, error)

	// Name identifies the source in logs and stats
	Name() string
}
