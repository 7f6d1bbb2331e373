package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/johnnynv/DocSentry/internal/storage"
	"github.com/johnnynv/DocSentry/internal/workflow"
	"github.com/johnnynv/DocSentry/pkg/logger"
)

func defaultCachePath() string {
	return storage.DefaultCacheConfig().SQLite.Path
}

// resolveToken reads the GitHub token from the environment.
func resolveToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GH_TOKEN")
}

// promptToken reads a token without echoing it to the screen. The
// prompt goes to stderr so piped stdout stays machine readable.
func promptToken() (string, error) {
	fmt.Fprint(os.Stderr, "GitHub token: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

// newAPIClient builds the GitHub client for the selected transport.
// The interactive token prompt only fires for an explicit HTTP
// transport with no token in the environment and a terminal on stdin.
func newAPIClient(ctx context.Context, entry *logger.Entry) (workflow.APIClient, error) {
	transport, err := workflow.ParseTransport(viper.GetString("transport"))
	if err != nil {
		return nil, err
	}

	config := workflow.GetDefaultClientConfig()
	config.Transport = transport
	config.Token = resolveToken()

	if transport == workflow.TransportHTTP && config.Token == "" && term.IsTerminal(int(syscall.Stdin)) {
		token, err := promptToken()
		if err != nil {
			return nil, err
		}
		config.Token = token
	}

	return workflow.NewClient(ctx, config, entry)
}

// runCacheAdapter exposes a storage.Cache as the run cache used by the
// workflow service.
type runCacheAdapter struct {
	store storage.Cache
}

func (a *runCacheAdapter) Get(ctx context.Context, owner, repo string, runID int64) (*workflow.CachedRun, error) {
	record, err := a.store.GetRun(ctx, owner, repo, runID)
	if err != nil {
		var notFound *storage.RunNotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return &workflow.CachedRun{RunJSON: record.RunJSON, JobsJSON: record.JobsJSON}, nil
}

func (a *runCacheAdapter) Put(ctx context.Context, owner, repo string, runID int64, cached *workflow.CachedRun) error {
	// The service only writes completed runs.
	return a.store.PutRun(ctx, &storage.RunRecord{
		Owner:    owner,
		Repo:     repo,
		RunID:    runID,
		Status:   "completed",
		RunJSON:  cached.RunJSON,
		JobsJSON: cached.JobsJSON,
	})
}

// openRunCache opens the SQLite run cache at the given path, or the
// default location when the path is empty.
func openRunCache(ctx context.Context, path string) (storage.Cache, error) {
	config := storage.DefaultCacheConfig()
	if path != "" {
		config.SQLite.Path = path
	}
	store, err := storage.NewFactory().Create(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to open run cache: %w", err)
	}
	if err := store.Initialize(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize run cache: %w", err)
	}
	return store, nil
}

// newWorkflowService wires the API client and, when requested, the run
// cache into a service. The returned cleanup closes the cache and must
// be called even on error paths once the service exists.
func newWorkflowService(ctx context.Context, entry *logger.Entry, withCache bool) (*workflow.Service, func(), error) {
	client, err := newAPIClient(ctx, entry)
	if err != nil {
		return nil, nil, err
	}

	var cache workflow.RunCache
	cleanup := func() {}
	if withCache && globalCachePath != "" {
		store, err := openRunCache(ctx, globalCachePath)
		if err != nil {
			return nil, nil, err
		}
		cache = &runCacheAdapter{store: store}
		cleanup = func() { store.Close() }
	}

	return workflow.NewService(client, cache, entry), cleanup, nil
}
