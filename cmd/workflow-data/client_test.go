package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/DocSentry/internal/storage"
	"github.com/johnnynv/DocSentry/internal/workflow"
)

// fakeStore is an in-memory storage.Cache for adapter tests.
type fakeStore struct {
	records map[string]*storage.RunRecord
	getErr  error
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*storage.RunRecord)}
}

func (f *fakeStore) key(owner, repo string, runID int64) string {
	return fmt.Sprintf("%s/%s/%d", owner, repo, runID)
}

func (f *fakeStore) Initialize(ctx context.Context) error  { return nil }
func (f *fakeStore) Close() error                          { return nil }
func (f *fakeStore) HealthCheck(ctx context.Context) error { return nil }

func (f *fakeStore) GetRun(ctx context.Context, owner, repo string, runID int64) (*storage.RunRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	record, ok := f.records[f.key(owner, repo, runID)]
	if !ok {
		return nil, &storage.RunNotFoundError{Owner: owner, Repo: repo, RunID: runID}
	}
	return record, nil
}

func (f *fakeStore) PutRun(ctx context.Context, record *storage.RunRecord) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.records[f.key(record.Owner, record.Repo, record.RunID)] = record
	return nil
}

func (f *fakeStore) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeStore) GetStats(ctx context.Context) (*storage.CacheStats, error) {
	return &storage.CacheStats{TotalRuns: int64(len(f.records))}, nil
}

func TestRunCacheAdapterMiss(t *testing.T) {
	adapter := &runCacheAdapter{store: newFakeStore()}

	cached, err := adapter.Get(context.Background(), "acme", "widgets", 42)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRunCacheAdapterRoundTrip(t *testing.T) {
	adapter := &runCacheAdapter{store: newFakeStore()}
	ctx := context.Background()

	in := &workflow.CachedRun{
		RunJSON:  []byte(`{"id":42,"status":"completed"}`),
		JobsJSON: []byte(`{"jobs":[]}`),
	}
	require.NoError(t, adapter.Put(ctx, "acme", "widgets", 42, in))

	out, err := adapter.Get(ctx, "acme", "widgets", 42)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.RunJSON, out.RunJSON)
	assert.Equal(t, in.JobsJSON, out.JobsJSON)
}

func TestRunCacheAdapterPutMarksCompleted(t *testing.T) {
	store := newFakeStore()
	adapter := &runCacheAdapter{store: store}

	cached := &workflow.CachedRun{RunJSON: []byte(`{}`), JobsJSON: []byte(`{}`)}
	require.NoError(t, adapter.Put(context.Background(), "acme", "widgets", 7, cached))

	record := store.records[store.key("acme", "widgets", 7)]
	require.NotNil(t, record)
	assert.Equal(t, "completed", record.Status)
	assert.Equal(t, "acme", record.Owner)
	assert.Equal(t, "widgets", record.Repo)
	assert.Equal(t, int64(7), record.RunID)
}

func TestRunCacheAdapterPropagatesErrors(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("disk on fire")
	adapter := &runCacheAdapter{store: store}

	_, err := adapter.Get(context.Background(), "acme", "widgets", 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")

	store.getErr = nil
	store.putErr = errors.New("readonly database")
	err = adapter.Put(context.Background(), "acme", "widgets", 42, &workflow.CachedRun{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "readonly database")
}

func TestResolveToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	assert.Equal(t, "", resolveToken())

	t.Setenv("GH_TOKEN", "gh-fallback")
	assert.Equal(t, "gh-fallback", resolveToken())

	t.Setenv("GITHUB_TOKEN", "primary")
	assert.Equal(t, "primary", resolveToken())
}

func TestDefaultCachePath(t *testing.T) {
	assert.Equal(t, storage.DefaultCacheConfig().SQLite.Path, defaultCachePath())
	assert.NotEmpty(t, defaultCachePath())
}

func TestOpenRunCache(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/cache.db"

	store, err := openRunCache(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.HealthCheck(ctx))
}
