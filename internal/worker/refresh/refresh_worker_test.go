package refresh_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/spatial"
	"github.com/ais-service/internal/worker/refresh"
)

const (
	testStream = "stream:ais:index:refresh"
	testGroup  = "ais-index-refresh"
)

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) (string, error) {
	args := m.Called(ctx, stream, data)
	return args.String(0), args.Error(1)
}

type fakeRebuilder struct {
	mu      sync.Mutex
	reasons []string
	err     error

	// loadStarted, when set, is reported as the load start of every build
	loadStarted time.Time
}

func (f *fakeRebuilder) Rebuild(ctx context.Context, reason string) (*spatial.Generation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reasons = append(f.reasons, reason)
	if f.err != nil {
		return nil, f.err
	}
	started := f.loadStarted
	if started.IsZero() {
		started = time.Now()
	}
	return &spatial.Generation{ID: uuid.New(), Version: "v", LoadStartedAt: started}, nil
}

func (f *fakeRebuilder) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reasons...)
}

func streamOptions() refresh.Options {
	return refresh.Options{Stream: testStream, ConsumerGroup: testGroup, ConsumerName: "test"}
}

func message(t *testing.T, id string, event domain.IndexRefreshEvent) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

// run starts the worker and returns a function that stops it and waits for Start to return
func run(t *testing.T, w *refresh.IndexRefreshWorker) func() error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()
	return func() error {
		require.NoError(t, w.Stop())
		select {
		case err := <-done:
			return err
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not stop")
			return nil
		}
	}
}

func TestIndexRefreshWorker_StreamMessages(t *testing.T) {
	msgs := make(chan domain.StreamMessage, 4)
	acked := make(chan string, 4)

	repo := &MockStreamRepository{}
	repo.On("CreateConsumerGroup", mock.Anything, testStream, testGroup).Return(nil)
	repo.On("ConsumeStream", mock.Anything, testStream, testGroup, "test").Return((<-chan domain.StreamMessage)(msgs), nil)
	repo.On("AckMessage", mock.Anything, testStream, testGroup, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { acked <- args.String(3) }).
		Return(nil)

	rebuilder := &fakeRebuilder{}
	w := refresh.NewIndexRefreshWorker(repo, rebuilder, streamOptions(), zap.NewNop())
	stop := run(t, w)

	msgs <- message(t, "1-0", domain.IndexRefreshEvent{EventID: uuid.New(), Reason: "engine build"})
	assert.Equal(t, "1-0", <-acked)
	assert.Equal(t, []string{"stream: engine build"}, rebuilder.calls())

	// malformed payload is acknowledged without a rebuild
	msgs <- domain.StreamMessage{ID: "2-0", Data: "{not json"}
	assert.Equal(t, "2-0", <-acked)
	assert.Len(t, rebuilder.calls(), 1)

	// a request older than the last build is already covered
	msgs <- message(t, "3-0", domain.IndexRefreshEvent{EventID: uuid.New(), RequestedAt: time.Now().Add(-time.Hour)})
	assert.Equal(t, "3-0", <-acked)
	assert.Len(t, rebuilder.calls(), 1)

	assert.NoError(t, stop())
	repo.AssertExpectations(t)
}

func TestIndexRefreshWorker_AcksAfterFailedRebuild(t *testing.T) {
	msgs := make(chan domain.StreamMessage, 1)
	acked := make(chan string, 1)

	repo := &MockStreamRepository{}
	repo.On("CreateConsumerGroup", mock.Anything, testStream, testGroup).Return(nil)
	repo.On("ConsumeStream", mock.Anything, testStream, testGroup, "test").Return((<-chan domain.StreamMessage)(msgs), nil)
	repo.On("AckMessage", mock.Anything, testStream, testGroup, "1-0").
		Run(func(args mock.Arguments) { acked <- args.String(3) }).
		Return(nil)

	rebuilder := &fakeRebuilder{err: errors.New("snapshot unreachable")}
	w := refresh.NewIndexRefreshWorker(repo, rebuilder, streamOptions(), zap.NewNop())
	stop := run(t, w)

	msgs <- message(t, "1-0", domain.IndexRefreshEvent{EventID: uuid.New(), RequestedAt: time.Now()})
	assert.Equal(t, "1-0", <-acked)
	assert.Len(t, rebuilder.calls(), 1)

	assert.NoError(t, stop())
}

func TestIndexRefreshWorker_Ticker(t *testing.T) {
	rebuilder := &fakeRebuilder{}
	w := refresh.NewIndexRefreshWorker(nil, rebuilder, refresh.Options{Interval: 10 * time.Millisecond}, zap.NewNop())
	stop := run(t, w)

	assert.Eventually(t, func() bool { return len(rebuilder.calls()) >= 2 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, stop())
	assert.Equal(t, "scheduled", rebuilder.calls()[0])
}

func TestIndexRefreshWorker_ConsumerGroupFailure(t *testing.T) {
	repo := &MockStreamRepository{}
	repo.On("CreateConsumerGroup", mock.Anything, testStream, testGroup).Return(errors.New("redis down"))

	w := refresh.NewIndexRefreshWorker(repo, &fakeRebuilder{}, streamOptions(), zap.NewNop())
	err := w.Start(context.Background())
	assert.Error(t, err)
	repo.AssertNotCalled(t, "ConsumeStream", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIndexRefreshWorker_CoverageFollowsJoinedBuild(t *testing.T) {
	msgs := make(chan domain.StreamMessage, 3)
	acked := make(chan string, 3)

	repo := &MockStreamRepository{}
	repo.On("CreateConsumerGroup", mock.Anything, testStream, testGroup).Return(nil)
	repo.On("ConsumeStream", mock.Anything, testStream, testGroup, "test").Return((<-chan domain.StreamMessage)(msgs), nil)
	repo.On("AckMessage", mock.Anything, testStream, testGroup, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { acked <- args.String(3) }).
		Return(nil)

	// the build handed back started loading an hour ago, as when joining one already in flight
	loadStarted := time.Now().Add(-time.Hour)
	rebuilder := &fakeRebuilder{loadStarted: loadStarted}
	w := refresh.NewIndexRefreshWorker(repo, rebuilder, streamOptions(), zap.NewNop())
	stop := run(t, w)

	msgs <- message(t, "1-0", domain.IndexRefreshEvent{EventID: uuid.New(), RequestedAt: time.Now()})
	assert.Equal(t, "1-0", <-acked)
	require.Len(t, rebuilder.calls(), 1)

	// requested after that load began, so the joined build does not contain it
	msgs <- message(t, "2-0", domain.IndexRefreshEvent{EventID: uuid.New(), RequestedAt: loadStarted.Add(30 * time.Minute)})
	assert.Equal(t, "2-0", <-acked)
	assert.Len(t, rebuilder.calls(), 2)

	msgs <- message(t, "3-0", domain.IndexRefreshEvent{EventID: uuid.New(), RequestedAt: loadStarted.Add(-time.Minute)})
	assert.Equal(t, "3-0", <-acked)
	assert.Len(t, rebuilder.calls(), 2)

	assert.NoError(t, stop())
}
