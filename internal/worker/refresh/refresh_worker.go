package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/domain/repository"
	"github.com/ais-service/internal/spatial"
	"github.com/ais-service/internal/worker"
)

const workerName = "index-refresh"

// Rebuilder publishes a fresh index generation
type Rebuilder interface {
	Rebuild(ctx context.Context, reason string) (*spatial.Generation, error)
}

// Options - refresh triggers. A zero Interval disables the ticker, an empty Stream disables the consumer.
type Options struct {
	Interval      time.Duration
	Stream        string
	ConsumerGroup string
	ConsumerName  string
}

// IndexRefreshWorker rebuilds the index on a schedule and on refresh requests from a Redis Stream
type IndexRefreshWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	rebuilder  Rebuilder
	opts       Options

	mu      sync.Mutex
	covered time.Time
}

// NewIndexRefreshWorker creates the worker. streamRepo may be nil when only the ticker is used.
func NewIndexRefreshWorker(
	streamRepo repository.StreamRepository,
	rebuilder Rebuilder,
	opts Options,
	logger *zap.Logger,
) *IndexRefreshWorker {
	if streamRepo == nil {
		opts.Stream = ""
	}
	return &IndexRefreshWorker{
		BaseWorker: worker.NewBaseWorker(workerName, opts.ConsumerGroup, logger),
		streamRepo: streamRepo,
		rebuilder:  rebuilder,
		opts:       opts,
	}
}

func (w *IndexRefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.StopChan():
			cancel()
		case <-ctx.Done():
		}
	}()

	var messages <-chan domain.StreamMessage
	if w.opts.Stream != "" {
		if err := w.streamRepo.CreateConsumerGroup(ctx, w.opts.Stream, w.ConsumerGroup()); err != nil {
			return fmt.Errorf("failed to create consumer group: %w", err)
		}
		ch, err := w.streamRepo.ConsumeStream(ctx, w.opts.Stream, w.ConsumerGroup(), w.opts.ConsumerName)
		if err != nil {
			return fmt.Errorf("failed to consume refresh stream: %w", err)
		}
		messages = ch
	}

	var tick <-chan time.Time
	if w.opts.Interval > 0 {
		ticker := time.NewTicker(w.opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	logger.Info("Index refresh worker started",
		zap.Duration("interval", w.opts.Interval),
		zap.String("stream", w.opts.Stream),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.opts.ConsumerName))

	if messages == nil && tick == nil {
		logger.Warn("No refresh trigger configured, worker idle")
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("Index refresh worker stopped")
			return nil

		case <-tick:
			w.rebuild(ctx, "scheduled")

		case msg, ok := <-messages:
			if !ok {
				messages = nil
				if ctx.Err() == nil {
					logger.Warn("Refresh stream closed")
				}
				continue
			}
			w.handleMessage(ctx, msg)
		}
	}
}

// handleMessage rebuilds for a refresh request and acknowledges it after the attempt, whatever the result.
// Requests made before the published generation started loading are already covered by it.
func (w *IndexRefreshWorker) handleMessage(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var event domain.IndexRefreshEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Dropping malformed refresh request", zap.Error(err))
		w.ack(ctx, msg.ID)
		return
	}

	w.mu.Lock()
	covered := !event.RequestedAt.IsZero() && event.RequestedAt.Before(w.covered)
	w.mu.Unlock()

	if covered {
		logger.Debug("Refresh request already covered by a newer build",
			zap.Time("requested_at", event.RequestedAt))
	} else {
		reason := "stream"
		if event.Reason != "" {
			reason = "stream: " + event.Reason
		}
		w.rebuild(ctx, reason)
	}
	w.ack(ctx, msg.ID)
}

// rebuild records the load start of the generation it got back. A coalesced call may receive a
// build that began before this call did, so its own start time is not a safe bound.
func (w *IndexRefreshWorker) rebuild(ctx context.Context, reason string) {
	gen, err := w.rebuilder.Rebuild(ctx, reason)
	if err != nil {
		// the rebuilder keeps the previous generation and records the failure
		w.Logger().Warn("Index refresh failed", zap.String("reason", reason), zap.Error(err))
		return
	}

	w.mu.Lock()
	if gen.LoadStartedAt.After(w.covered) {
		w.covered = gen.LoadStartedAt
	}
	w.mu.Unlock()

	w.Logger().Info("Index refreshed",
		zap.String("reason", reason),
		zap.String("generation", gen.ID.String()),
		zap.String("version", gen.Version))
}

func (w *IndexRefreshWorker) ack(ctx context.Context, id string) {
	if err := w.streamRepo.AckMessage(ctx, w.opts.Stream, w.ConsumerGroup(), id); err != nil {
		w.Logger().Error("Failed to acknowledge refresh request",
			zap.String("message_id", id),
			zap.Error(err))
	}
}
