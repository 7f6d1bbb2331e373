package storage

import (
	"context"
	"fmt"
	"time"
)

// Cache defines the interface for persisting raw workflow run payloads
type Cache interface {
	// Lifecycle operations
	Initialize(ctx context.Context) error
	Close() error
	HealthCheck(ctx context.Context) error

	// Run payload operations
	GetRun(ctx context.Context, owner, repo string, runID int64) (*RunRecord, error)
	PutRun(ctx context.Context, record *RunRecord) error
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Statistics operations
	GetStats(ctx context.Context) (*CacheStats, error)
}

// CacheStats represents cache statistics
type CacheStats struct {
	TotalRuns       int64     `json:"total_runs"`
	TotalRepos      int64     `json:"total_repositories"`
	OldestFetchedAt time.Time `json:"oldest_fetched_at,omitempty"`
	NewestFetchedAt time.Time `json:"newest_fetched_at,omitempty"`
	DatabaseSize    int64     `json:"database_size_bytes,omitempty"`
}

// Factory creates cache instances based on configuration
type Factory struct{}

// NewFactory creates a new cache factory
func NewFactory() *Factory {
	return &Factory{}
}

// Create creates a cache instance based on configuration
func (f *Factory) Create(config *CacheConfig) (Cache, error) {
	switch config.Type {
	case "sqlite":
		return NewSQLiteCache(&config.SQLite)
	default:
		return nil, &UnsupportedCacheTypeError{Type: config.Type}
	}
}

// Cache errors
type UnsupportedCacheTypeError struct {
	Type string
}

func (e *UnsupportedCacheTypeError) Error() string {
	return "unsupported cache type: " + e.Type
}

type RunNotFoundError struct {
	Owner string
	Repo  string
	RunID int64
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run not cached: %s/%s run %d", e.Owner, e.Repo, e.RunID)
}
