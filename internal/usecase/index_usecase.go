package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/domain/repository"
	"github.com/ais-service/internal/spatial"
	"github.com/ais-service/internal/usecase/dto"
)

// IndexUseCase - builds index generations from the snapshot source and publishes them
type IndexUseCase struct {
	source     repository.SnapshotSource
	candidates spatial.CandidateSource
	store      *spatial.GenerationStore
	cacheRepo  repository.CacheRepository
	logger     *zap.Logger

	group singleflight.Group

	mu          sync.Mutex
	lastErr     error
	lastErrTime time.Time
}

func NewIndexUseCase(
	source repository.SnapshotSource,
	candidates spatial.CandidateSource,
	store *spatial.GenerationStore,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
) *IndexUseCase {
	return &IndexUseCase{
		source:     source,
		candidates: candidates,
		store:      store,
		cacheRepo:  cacheRepo,
		logger:     logger,
	}
}

// Rebuild loads the snapshot, builds a fresh index and publishes it. Concurrent calls share one build.
// On failure the generation in service is kept.
func (uc *IndexUseCase) Rebuild(ctx context.Context, reason string) (*spatial.Generation, error) {
	v, err, shared := uc.group.Do("rebuild", func() (interface{}, error) {
		return uc.rebuild(ctx, reason)
	})
	if shared {
		uc.logger.Debug("Rebuild coalesced with a running build", zap.String("reason", reason))
	}
	if err != nil {
		return nil, err
	}
	return v.(*spatial.Generation), nil
}

func (uc *IndexUseCase) rebuild(ctx context.Context, reason string) (*spatial.Generation, error) {
	started := time.Now()
	uc.logger.Info("Index rebuild started",
		zap.String("source", uc.source.Name()),
		zap.String("reason", reason))

	ds, err := uc.source.Load(ctx)
	if err != nil {
		return nil, uc.fail(eris.Wrapf(err, "load snapshot from %s", uc.source.Name()))
	}

	idx, err := spatial.Build(ds, uc.candidates)
	if err != nil {
		return nil, uc.fail(eris.Wrap(err, "build index"))
	}

	gen := spatial.NewGeneration(idx, ds)
	gen.LoadStartedAt = started
	prev := uc.store.Publish(gen)

	uc.mu.Lock()
	uc.lastErr = nil
	uc.mu.Unlock()

	stats := idx.Stats()
	fields := []zap.Field{
		zap.String("generation", gen.ID.String()),
		zap.String("version", gen.Version),
		zap.Int("addresses", stats.Addresses),
		zap.Int("candidates", stats.Candidates),
		zap.Int("ghost_addresses", stats.GhostAddresses),
		zap.Int("skipped_polygons", stats.SkippedPolygons),
		zap.Duration("duration", time.Since(started)),
	}
	if prev != nil {
		fields = append(fields, zap.String("replaced", prev.ID.String()))
	}
	uc.logger.Info("Index generation published", fields...)

	if prev != nil {
		uc.purgeCache(ctx, prev)
	}
	return gen, nil
}

// purgeCache drops the responses cached for a replaced generation. They can no longer be hit,
// removing them only frees memory ahead of their TTL.
func (uc *IndexUseCase) purgeCache(ctx context.Context, prev *spatial.Generation) {
	if uc.cacheRepo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	removed, err := uc.cacheRepo.DeletePrefix(ctx, cachePrefix(prev))
	if err != nil {
		uc.logger.Warn("Failed to purge cached responses", zap.String("generation", prev.ID.String()), zap.Error(err))
		return
	}
	uc.logger.Debug("Cached responses purged", zap.String("generation", prev.ID.String()), zap.Int("removed", removed))
}

func (uc *IndexUseCase) fail(err error) error {
	uc.mu.Lock()
	uc.lastErr = err
	uc.lastErrTime = time.Now().UTC()
	uc.mu.Unlock()

	_, unavailable := uc.store.Current()
	uc.logger.Error("Index rebuild failed",
		zap.Bool("serving_previous", unavailable == nil),
		zap.Error(err))
	return err
}

// Stats describes the generation in service
func (uc *IndexUseCase) Stats(ctx context.Context) (*dto.IndexStats, error) {
	gen, err := uc.store.Current()
	if err != nil {
		return nil, err
	}

	s := gen.Index.Stats()
	resp := &dto.IndexStats{
		GenerationID:       gen.ID.String(),
		Version:            gen.Version,
		Source:             gen.Source,
		BuiltAt:            gen.BuiltAt,
		BuildDurationMS:    s.BuildDuration.Milliseconds(),
		Addresses:          s.Addresses,
		Candidates:         s.Candidates,
		CandidatesByType:   s.CandidatesByType,
		GhostAddresses:     s.GhostAddresses,
		DuplicateAddresses: s.DuplicateAddresses,
		Polygons:           s.Polygons,
		SkippedPolygons:    s.SkippedPolygons,
		SchemaVersion:      domain.ServiceAreaSchemaVersion,
		Published:          uc.store.Published(),
	}

	uc.mu.Lock()
	if uc.lastErr != nil {
		resp.LastError = uc.lastErr.Error()
		at := uc.lastErrTime
		resp.LastErrorAt = &at
	}
	uc.mu.Unlock()

	return resp, nil
}

// Health reports whether a generation is in service
func (uc *IndexUseCase) Health(ctx context.Context) (*dto.HealthResponse, error) {
	resp := &dto.HealthResponse{Status: "unavailable", Time: time.Now().UTC()}
	gen, err := uc.store.Current()
	if err != nil {
		return resp, err
	}
	resp.Status = "healthy"
	resp.GenerationID = gen.ID.String()
	resp.Version = gen.Version
	return resp, nil
}
