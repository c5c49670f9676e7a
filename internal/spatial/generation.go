package spatial

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ais-service/internal/domain"
)

// Generation - one published, immutable index together with where it came from
type Generation struct {
	ID      uuid.UUID
	Version string
	Source  string
	BuiltAt time.Time
	Index   *Index

	// LoadStartedAt - when the snapshot read behind this generation began. Changes made to the
	// source before this instant are part of it.
	LoadStartedAt time.Time
}

// NewGeneration wraps a built index
func NewGeneration(idx *Index, ds *domain.Dataset) *Generation {
	g := &Generation{
		ID:      uuid.New(),
		BuiltAt: time.Now().UTC(),
		Index:   idx,
	}
	if ds != nil {
		g.Version = ds.Version
		g.Source = ds.Source
	}
	return g
}

// GenerationStore holds the current generation. Readers always see either the previous
// or the next generation in full, never a partially built one.
type GenerationStore struct {
	current   atomic.Pointer[Generation]
	published atomic.Int64
}

func NewGenerationStore() *GenerationStore {
	return &GenerationStore{}
}

// Current returns the generation in service, or ErrIndexUnavailable before the first Publish
func (s *GenerationStore) Current() (*Generation, error) {
	g := s.current.Load()
	if g == nil {
		return nil, domain.ErrIndexUnavailable
	}
	return g, nil
}

// Publish swaps in a new generation and returns the one it replaced (nil on first publish)
func (s *GenerationStore) Publish(g *Generation) *Generation {
	if g == nil || g.Index == nil {
		return nil
	}
	prev := s.current.Swap(g)
	s.published.Add(1)
	return prev
}

// Published - number of generations published since start
func (s *GenerationStore) Published() int64 {
	return s.published.Load()
}
