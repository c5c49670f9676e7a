package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultShutdownTimeout = 30 * time.Second
	minRestartDelay        = time.Second
	maxRestartDelay        = 30 * time.Second
)

// stoppable is implemented by workers embedding BaseWorker
type stoppable interface {
	StopChan() <-chan struct{}
}

// WorkerManager runs registered workers, restarts the ones that fail and stops them together
type WorkerManager struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration
	restartDelay    time.Duration

	mu      sync.Mutex
	workers []Worker
	wg      sync.WaitGroup
}

// NewWorkerManager creates a manager. shutdownTimeout bounds Stop; zero means 30s.
func NewWorkerManager(logger *zap.Logger, shutdownTimeout time.Duration) *WorkerManager {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &WorkerManager{
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
		restartDelay:    minRestartDelay,
	}
}

// SetRestartDelay changes the first backoff after a worker failure; it doubles up to 30s
func (m *WorkerManager) SetRestartDelay(d time.Duration) {
	if d > 0 {
		m.restartDelay = d
	}
}

func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

func (m *WorkerManager) snapshot() []Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Worker(nil), m.workers...)
}

// Start launches every registered worker in its own goroutine and returns immediately
func (m *WorkerManager) Start(ctx context.Context) error {
	workers := m.snapshot()
	if len(workers) == 0 {
		return fmt.Errorf("no workers registered")
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))
	for _, w := range workers {
		m.wg.Add(1)
		go func(w Worker) {
			defer m.wg.Done()
			m.supervise(ctx, w)
		}(w)
	}
	return nil
}

// supervise runs w until it returns cleanly, is stopped or ctx ends
func (m *WorkerManager) supervise(ctx context.Context, w Worker) {
	var stopped <-chan struct{}
	if s, ok := w.(stoppable); ok {
		stopped = s.StopChan()
	}

	delay := m.restartDelay
	for attempt := 1; ; attempt++ {
		m.logger.Info("Starting worker", zap.String("name", w.Name()), zap.Int("attempt", attempt))
		err := w.Start(ctx)
		if err == nil || ctx.Err() != nil {
			return
		}

		m.logger.Error("Worker failed, restarting",
			zap.String("name", w.Name()),
			zap.Duration("backoff", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-stopped:
			timer.Stop()
			return
		case <-timer.C:
		}

		if delay *= 2; delay > maxRestartDelay {
			delay = maxRestartDelay
		}
	}
}

// Stop signals every worker and waits for them up to the shutdown timeout
func (m *WorkerManager) Stop() error {
	workers := m.snapshot()
	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker", zap.String("name", w.Name()), zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All workers stopped gracefully")
		return nil
	case <-time.After(m.shutdownTimeout):
		m.logger.Warn("Workers shutdown timed out, a rebuild may still be running",
			zap.Duration("timeout", m.shutdownTimeout))
		return fmt.Errorf("workers shutdown timed out after %v", m.shutdownTimeout)
	}
}
