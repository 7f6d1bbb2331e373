package storage

import (
	"os"
	"path/filepath"
	"time"
)

// CacheConfig selects and configures a cache backend
type CacheConfig struct {
	Type   string       `json:"type" yaml:"type"`
	SQLite SQLiteConfig `json:"sqlite" yaml:"sqlite"`
}

// SQLiteConfig configures the SQLite cache backend
type SQLiteConfig struct {
	Path           string `json:"path" yaml:"path"`
	MaxConnections int    `json:"max_connections" yaml:"max_connections"`
}

// DefaultCacheConfig returns an SQLite cache rooted under the user
// cache directory.
func DefaultCacheConfig() CacheConfig {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "."
	}
	return CacheConfig{
		Type: "sqlite",
		SQLite: SQLiteConfig{
			Path:           filepath.Join(dir, "docsentry", "workflow-cache.db"),
			MaxConnections: 4,
		},
	}
}

// RunRecord is one cached workflow run with its raw API payloads.
// Payloads are stored verbatim so a cache hit reproduces the API
// response byte for byte.
type RunRecord struct {
	ID        int64     `json:"id"`
	Owner     string    `json:"owner"`
	Repo      string    `json:"repo"`
	RunID     int64     `json:"run_id"`
	Status    string    `json:"status"`
	RunJSON   []byte    `json:"-"`
	JobsJSON  []byte    `json:"-"`
	FetchedAt time.Time `json:"fetched_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
