package workflow

import "context"

// RunCache stores raw run and jobs payloads for completed workflow
// runs so repeated timing reports do not refetch immutable data.
type RunCache interface {
	// Get returns the cached payloads for a run, or nil when the run
	// has not been cached.
	Get(ctx context.Context, owner, repo string, runID int64) (*CachedRun, error)
	// Put stores the payloads for a run.
	Put(ctx context.Context, owner, repo string, runID int64, cached *CachedRun) error
}

// CachedRun holds the raw API payloads for a single workflow run.
type CachedRun struct {
	RunJSON  []byte
	JobsJSON []byte
}
