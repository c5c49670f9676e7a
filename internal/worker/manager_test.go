package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ais-service/internal/worker"
)

type blockingWorker struct {
	*worker.BaseWorker
	started chan struct{}
	ignore  bool
}

func newBlockingWorker(name string, ignoreStop bool) *blockingWorker {
	return &blockingWorker{
		BaseWorker: worker.NewBaseWorker(name, "", zap.NewNop()),
		started:    make(chan struct{}),
		ignore:     ignoreStop,
	}
}

func (w *blockingWorker) Start(ctx context.Context) error {
	close(w.started)
	if w.ignore {
		<-ctx.Done()
		return ctx.Err()
	}
	<-w.StopChan()
	return nil
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	a, b := newBlockingWorker("a", false), newBlockingWorker("b", false)
	m.Register(a)
	m.Register(b)

	require.NoError(t, m.Start(context.Background()))
	<-a.started
	<-b.started

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())

	// second stop is harmless
	assert.NoError(t, a.Stop())
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), 0)
	assert.Error(t, m.Start(context.Background()))
}

func TestWorkerManager_ShutdownTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := worker.NewWorkerManager(zap.NewNop(), 50*time.Millisecond)
	w := newBlockingWorker("stuck", true)
	m.Register(w)
	require.NoError(t, m.Start(ctx))
	<-w.started

	assert.Error(t, m.Stop())
}

// flakyWorker fails its first runs, then blocks until stopped
type flakyWorker struct {
	*worker.BaseWorker
	failures int32
	runs     atomic.Int32
}

func (w *flakyWorker) Start(ctx context.Context) error {
	if w.runs.Add(1) <= w.failures {
		return errors.New("redis unavailable")
	}
	<-w.StopChan()
	return nil
}

func TestWorkerManager_RestartsFailedWorker(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	m.SetRestartDelay(5 * time.Millisecond)
	w := &flakyWorker{BaseWorker: worker.NewBaseWorker("flaky", "", zap.NewNop()), failures: 2}
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))
	assert.Eventually(t, func() bool { return w.runs.Load() == 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.Equal(t, int32(3), w.runs.Load())
}

func TestWorkerManager_StopDuringBackoff(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), 200*time.Millisecond)
	m.SetRestartDelay(time.Hour)
	w := &flakyWorker{BaseWorker: worker.NewBaseWorker("flaky", "", zap.NewNop()), failures: 100}
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))
	assert.Eventually(t, func() bool { return w.runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, m.Stop())
}
