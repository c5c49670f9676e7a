package worker

import "context"

// Worker - a background loop supervised by WorkerManager
type Worker interface {
	// Start blocks until the worker is stopped or ctx is done. A returned error makes the
	// manager start the worker again after a backoff.
	Start(ctx context.Context) error

	// Stop asks Start to return; it must be safe to call more than once
	Stop() error

	Name() string
}
