package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCache implements Cache using SQLite
type SQLiteCache struct {
	db               *sql.DB
	config           *SQLiteConfig
	migrationManager *MigrationManager
}

// NewSQLiteCache creates a new SQLite cache instance
func NewSQLiteCache(config *SQLiteConfig) (*SQLiteCache, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("SQLite cache path is required")
	}

	// Ensure directory exists (skip for in-memory database)
	if config.Path != ":memory:" {
		dir := filepath.Dir(config.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	// Open database
	db, err := sql.Open("sqlite3", config.Path+"?_journal_mode=WAL&_foreign_keys=1&_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// Configure connection pool
	maxConns := config.MaxConnections
	if maxConns <= 0 {
		maxConns = 4
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(time.Hour)

	cache := &SQLiteCache{
		db:               db,
		config:           config,
		migrationManager: NewMigrationManager(db),
	}

	return cache, nil
}

// Initialize initializes the database and runs migrations
func (s *SQLiteCache) Initialize(ctx context.Context) error {
	// Test connection
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping cache database: %w", err)
	}

	// Run migrations
	if err := s.migrationManager.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteCache) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// HealthCheck checks if the database is accessible
func (s *SQLiteCache) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetRun retrieves a cached run by repository and run id
func (s *SQLiteCache) GetRun(ctx context.Context, owner, repo string, runID int64) (*RunRecord, error) {
	query := `
		SELECT id, owner, repo, run_id, status, run_json, jobs_json, fetched_at, created_at, updated_at
		FROM workflow_runs
		WHERE owner = ? AND repo = ? AND run_id = ?
	`

	var record RunRecord
	err := s.db.QueryRowContext(ctx, query, owner, repo, runID).Scan(
		&record.ID, &record.Owner, &record.Repo, &record.RunID, &record.Status,
		&record.RunJSON, &record.JobsJSON,
		&record.FetchedAt, &record.CreatedAt, &record.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &RunNotFoundError{Owner: owner, Repo: repo, RunID: runID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached run: %w", err)
	}

	return &record, nil
}

// PutRun inserts or updates a cached run
func (s *SQLiteCache) PutRun(ctx context.Context, record *RunRecord) error {
	if record == nil {
		return fmt.Errorf("run record is required")
	}
	if record.Owner == "" || record.Repo == "" || record.RunID <= 0 {
		return fmt.Errorf("run record needs owner, repo and a positive run id")
	}

	query := `
		INSERT INTO workflow_runs (owner, repo, run_id, status, run_json, jobs_json, fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner, repo, run_id) DO UPDATE SET
			status = excluded.status,
			run_json = excluded.run_json,
			jobs_json = excluded.jobs_json,
			fetched_at = excluded.fetched_at,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	if record.FetchedAt.IsZero() {
		record.FetchedAt = now
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, query,
		record.Owner, record.Repo, record.RunID, record.Status,
		record.RunJSON, record.JobsJSON,
		record.FetchedAt, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to store cached run: %w", err)
	}

	// Set ID if this was an insert
	if record.ID == 0 {
		id, err := result.LastInsertId()
		if err == nil {
			record.ID = id
		}
	}

	return nil
}

// DeleteRunsBefore removes cached runs fetched before the cutoff
func (s *SQLiteCache) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM workflow_runs WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old cached runs: %w", err)
	}

	return result.RowsAffected()
}

// GetStats retrieves cache statistics
func (s *SQLiteCache) GetStats(ctx context.Context) (*CacheStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM workflow_runs) as total_runs,
			(SELECT COUNT(DISTINCT owner || '/' || repo) FROM workflow_runs) as total_repositories,
			(SELECT MIN(fetched_at) FROM workflow_runs) as oldest_fetched_at,
			(SELECT MAX(fetched_at) FROM workflow_runs) as newest_fetched_at
	`

	var stats CacheStats
	var oldestStr, newestStr sql.NullString

	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalRuns, &stats.TotalRepos, &oldestStr, &newestStr)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache stats: %w", err)
	}

	stats.OldestFetchedAt = parseDBTime(oldestStr)
	stats.NewestFetchedAt = parseDBTime(newestStr)

	// Get database file size
	if fileInfo, err := os.Stat(s.config.Path); err == nil {
		stats.DatabaseSize = fileInfo.Size()
	}

	return &stats, nil
}

// parseDBTime parses a DATETIME aggregate, which SQLite returns as
// text in one of two layouts depending on how the value was written.
func parseDBTime(value sql.NullString) time.Time {
	if !value.Valid || value.String == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, value.String); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", value.String); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05.999999999-07:00", value.String); err == nil {
		return t
	}
	return time.Time{}
}
