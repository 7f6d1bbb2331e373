package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

func testEntry(t *testing.T) *logger.Entry {
	t.Helper()
	log, err := logger.NewLogger(logger.Config{Level: "panic", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return log.WithFields(logger.Fields{})
}

type recordedCall struct {
	endpoint string
	params   url.Values
}

// scriptedClient replays canned responses in call order
type scriptedClient struct {
	responses []string
	errs      []error
	calls     []recordedCall
}

func (c *scriptedClient) Call(_ context.Context, endpoint string, params url.Values) ([]byte, error) {
	index := len(c.calls)
	c.calls = append(c.calls, recordedCall{endpoint: endpoint, params: params})
	if index < len(c.errs) && c.errs[index] != nil {
		return nil, c.errs[index]
	}
	if index >= len(c.responses) {
		return nil, fmt.Errorf("unexpected call %d to %s", index, endpoint)
	}
	return []byte(c.responses[index]), nil
}

type fakeCache struct {
	store map[int64]*CachedRun
	puts  []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[int64]*CachedRun)}
}

func (f *fakeCache) Get(_ context.Context, _, _ string, runID int64) (*CachedRun, error) {
	return f.store[runID], nil
}

func (f *fakeCache) Put(_ context.Context, _, _ string, runID int64, cached *CachedRun) error {
	f.store[runID] = cached
	f.puts = append(f.puts, runID)
	return nil
}

func newTestService(t *testing.T, client APIClient, cache RunCache) *Service {
	t.Helper()
	svc := NewService(client, cache, testEntry(t))
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func runJSON(id int, name, path, created string) string {
	return fmt.Sprintf(`{"id": %d, "name": %q, "path": %q, "created_at": %q}`, id, name, path, created)
}

func runsPage(runs ...string) string {
	return `{"workflow_runs": [` + strings.Join(runs, ", ") + `]}`
}

func runIDs(t *testing.T, runs []map[string]interface{}) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(runs))
	for _, run := range runs {
		id, ok := numericID(run["id"])
		require.True(t, ok)
		ids = append(ids, id)
	}
	return ids
}

func TestListOptions_EffectiveLimit(t *testing.T) {
	tests := []struct {
		name string
		opts ListOptions
		want int
	}{
		{"unset without window defaults to ten", ListOptions{Limit: -1}, 10},
		{"unset with window is unlimited", ListOptions{Limit: -1, Days: 30}, 0},
		{"explicit zero is unlimited", ListOptions{Limit: 0}, 0},
		{"explicit limit wins over window", ListOptions{Limit: 5, Days: 30}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.effectiveLimit())
		})
	}
}

func TestListRuns_DefaultLimitTen(t *testing.T) {
	var runs []string
	for i := 0; i < 15; i++ {
		runs = append(runs, runJSON(100-i, "CI", ".github/workflows/ci.yml", "2026-03-09T00:00:00Z"))
	}
	client := &scriptedClient{responses: []string{runsPage(runs...)}}
	svc := newTestService(t, client, nil)

	got, err := svc.ListRuns(context.Background(), "acme", "widgets", ListOptions{Limit: -1})

	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, []int64{100, 99, 98, 97, 96, 95, 94, 93, 92, 91}, runIDs(t, got))
	require.Len(t, client.calls, 1)
	assert.Equal(t, "/repos/acme/widgets/actions/runs", client.calls[0].endpoint)
	assert.Equal(t, "100", client.calls[0].params.Get("per_page"))
	assert.Equal(t, "1", client.calls[0].params.Get("page"))
	assert.Empty(t, client.calls[0].params.Get("created"))
}

func TestListRuns_DaysOnlyReturnsWholeWindow(t *testing.T) {
	var first []string
	for i := 0; i < 100; i++ {
		first = append(first, runJSON(500-i, "CI", ".github/workflows/ci.yml", "2026-03-09T00:00:00Z"))
	}
	second := runsPage(
		runJSON(400, "CI", ".github/workflows/ci.yml", "2026-03-08T00:00:00Z"),
		runJSON(399, "CI", ".github/workflows/ci.yml", "2026-03-07T00:00:00Z"),
	)
	client := &scriptedClient{responses: []string{runsPage(first...), second}}
	svc := newTestService(t, client, nil)

	got, err := svc.ListRuns(context.Background(), "acme", "widgets", ListOptions{Limit: -1, Days: 30})

	require.NoError(t, err)
	assert.Len(t, got, 102)
	require.Len(t, client.calls, 2)
	assert.Equal(t, "2", client.calls[1].params.Get("page"))
	assert.Equal(t, ">=2026-02-08T12:00:00Z", client.calls[0].params.Get("created"))
}

func TestListRuns_LimitZeroWithWindowKeepsOrder(t *testing.T) {
	page := runsPage(
		runJSON(3, "CI", ".github/workflows/ci.yml", "2026-03-09T00:00:00Z"),
		runJSON(2, "CI", ".github/workflows/ci.yml", "2026-03-05T00:00:00Z"),
		runJSON(1, "CI", ".github/workflows/ci.yml", "2026-02-20T00:00:00Z"),
	)
	client := &scriptedClient{responses: []string{page}}
	svc := newTestService(t, client, nil)

	got, err := svc.ListRuns(context.Background(), "acme", "widgets", ListOptions{Limit: 0, Days: 30})

	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, runIDs(t, got))
}

func TestListRuns_CutoffFiltersAndStopsPaging(t *testing.T) {
	var runs []string
	for i := 0; i < 99; i++ {
		runs = append(runs, runJSON(300-i, "CI", ".github/workflows/ci.yml", "2026-03-01T00:00:00Z"))
	}
	runs = append(runs, runJSON(7, "CI", ".github/workflows/ci.yml", "2025-12-01T00:00:00Z"))
	client := &scriptedClient{responses: []string{runsPage(runs...)}}
	svc := newTestService(t, client, nil)

	got, err := svc.ListRuns(context.Background(), "acme", "widgets", ListOptions{Limit: 0, Days: 30})

	require.NoError(t, err)
	assert.Len(t, got, 99)
	assert.NotContains(t, runIDs(t, got), int64(7))
	// The page was full but its tail crossed the cutoff, so no second
	// page is requested.
	assert.Len(t, client.calls, 1)
}

func TestListRuns_KeepsRunsWithBadTimestamps(t *testing.T) {
	page := runsPage(
		runJSON(2, "CI", ".github/workflows/ci.yml", "2026-03-09T00:00:00Z"),
		runJSON(1, "CI", ".github/workflows/ci.yml", "not-a-date"),
	)
	client := &scriptedClient{responses: []string{page}}
	svc := newTestService(t, client, nil)

	got, err := svc.ListRuns(context.Background(), "acme", "widgets", ListOptions{Limit: 0, Days: 30})

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, runIDs(t, got))
}

func TestListRuns_WorkflowFilter(t *testing.T) {
	page := runsPage(
		runJSON(4, "CI", ".github/workflows/ci.yml", "2026-03-09T00:00:00Z"),
		runJSON(3, "Nightly Build", ".github/workflows/nightly.yml", "2026-03-09T00:00:00Z"),
		runJSON(2, "Docs", ".github/workflows/docs.yml", "2026-03-09T00:00:00Z"),
	)

	t.Run("matches workflow file name suffix", func(t *testing.T) {
		client := &scriptedClient{responses: []string{page}}
		svc := newTestService(t, client, nil)

		got, err := svc.ListRuns(context.Background(), "acme", "widgets", ListOptions{Limit: 0, Workflow: "ci.yml"})

		require.NoError(t, err)
		assert.Equal(t, []int64{4}, runIDs(t, got))
	})

	t.Run("matches exact workflow name", func(t *testing.T) {
		client := &scriptedClient{responses: []string{page}}
		svc := newTestService(t, client, nil)

		got, err := svc.ListRuns(context.Background(), "acme", "widgets", ListOptions{Limit: 0, Workflow: "Nightly Build"})

		require.NoError(t, err)
		assert.Equal(t, []int64{3}, runIDs(t, got))
	})
}

func TestListRuns_PassesBranchAndStatus(t *testing.T) {
	client := &scriptedClient{responses: []string{runsPage(runJSON(1, "CI", ".github/workflows/ci.yml", "2026-03-09T00:00:00Z"))}}
	svc := newTestService(t, client, nil)

	_, err := svc.ListRuns(context.Background(), "acme", "widgets", ListOptions{Limit: 1, Branch: "main", Status: "completed"})

	require.NoError(t, err)
	require.Len(t, client.calls, 1)
	assert.Equal(t, "main", client.calls[0].params.Get("branch"))
	assert.Equal(t, "completed", client.calls[0].params.Get("status"))
}

func TestGetRun(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"id": 10900570771, "status": "completed"}`}}
	svc := newTestService(t, client, nil)

	got, err := svc.GetRun(context.Background(), "acme", "widgets", 10900570771)

	require.NoError(t, err)
	assert.Equal(t, "/repos/acme/widgets/actions/runs/10900570771", client.calls[0].endpoint)
	assert.Equal(t, json.Number("10900570771"), got["id"])
	assert.Equal(t, "completed", got["status"])
}

func TestListJobs(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"jobs": [{"id": 1, "name": "build"}, {"id": 2, "name": "test"}]}`}}
	svc := newTestService(t, client, nil)

	got, err := svc.ListJobs(context.Background(), "acme", "widgets", 42)

	require.NoError(t, err)
	assert.Equal(t, "/repos/acme/widgets/actions/runs/42/jobs", client.calls[0].endpoint)
	assert.Equal(t, "100", client.calls[0].params.Get("per_page"))
	require.Len(t, got, 2)
	assert.Equal(t, "build", got[0]["name"])
}

func TestListJobs_EmptyPayload(t *testing.T) {
	client := &scriptedClient{responses: []string{`{}`}}
	svc := newTestService(t, client, nil)

	got, err := svc.ListJobs(context.Background(), "acme", "widgets", 42)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetJob(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"id": 77, "name": "lint", "conclusion": "success"}`}}
	svc := newTestService(t, client, nil)

	got, err := svc.GetJob(context.Background(), "acme", "widgets", 77)

	require.NoError(t, err)
	assert.Equal(t, "/repos/acme/widgets/actions/jobs/77", client.calls[0].endpoint)
	assert.Equal(t, "lint", got["name"])
}

const timingRunBody = `{
  "id": 42,
  "name": "CI",
  "run_number": 7,
  "created_at": "2026-03-09T10:00:00Z",
  "updated_at": "2026-03-09T10:05:30Z",
  "run_started_at": "2026-03-09T10:00:00Z",
  "status": "completed",
  "conclusion": "success",
  "actor": {"login": "octocat"}
}`

const timingJobsBody = `{
  "jobs": [
    {"name": "build", "status": "completed", "conclusion": "success",
     "started_at": "2026-03-09T10:00:10Z", "completed_at": "2026-03-09T10:02:10Z"},
    {"name": "deploy", "status": "in_progress", "conclusion": null,
     "started_at": "2026-03-09T10:02:20Z"}
  ]
}`

func TestRunTiming_ComputesDurations(t *testing.T) {
	client := &scriptedClient{responses: []string{timingRunBody, timingJobsBody}}
	svc := newTestService(t, client, nil)

	got, err := svc.RunTiming(context.Background(), "acme", "widgets", 42)

	require.NoError(t, err)
	assert.Equal(t, json.Number("42"), got["run_id"])
	assert.Equal(t, "CI", got["run_name"])
	assert.Equal(t, json.Number("7"), got["run_number"])
	assert.Equal(t, "success", got["run_conclusion"])
	assert.Equal(t, 330.0, got["run_duration_seconds"])
	assert.Equal(t, map[string]interface{}{"login": "octocat"}, got["actor"])

	jobs, ok := got["jobs"].([]interface{})
	require.True(t, ok)
	require.Len(t, jobs, 2)
	build := jobs[0].(map[string]interface{})
	assert.Equal(t, "build", build["name"])
	assert.Equal(t, 120.0, build["duration_seconds"])
	deploy := jobs[1].(map[string]interface{})
	assert.Nil(t, deploy["duration_seconds"])

	assert.Equal(t, 120.0, got["total_job_time_seconds"])
}

func TestRunTiming_MissingTimestampsAndActor(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`{"id": 9, "name": "CI", "status": "in_progress"}`,
		`{"jobs": []}`,
	}}
	svc := newTestService(t, client, nil)

	got, err := svc.RunTiming(context.Background(), "acme", "widgets", 9)

	require.NoError(t, err)
	assert.Nil(t, got["run_duration_seconds"])
	assert.Equal(t, map[string]interface{}{}, got["actor"])
	assert.Equal(t, 0.0, got["total_job_time_seconds"])
	assert.Empty(t, got["jobs"])
}

func TestRunTiming_ServesFromCache(t *testing.T) {
	cache := newFakeCache()
	cache.store[42] = &CachedRun{RunJSON: []byte(timingRunBody), JobsJSON: []byte(timingJobsBody)}
	client := &scriptedClient{}
	svc := newTestService(t, client, cache)

	got, err := svc.RunTiming(context.Background(), "acme", "widgets", 42)

	require.NoError(t, err)
	assert.Equal(t, 330.0, got["run_duration_seconds"])
	assert.Empty(t, client.calls)
}

func TestRunTiming_CachesOnlyCompletedRuns(t *testing.T) {
	t.Run("completed run is written through", func(t *testing.T) {
		cache := newFakeCache()
		client := &scriptedClient{responses: []string{timingRunBody, timingJobsBody}}
		svc := newTestService(t, client, cache)

		_, err := svc.RunTiming(context.Background(), "acme", "widgets", 42)
		require.NoError(t, err)
		assert.Equal(t, []int64{42}, cache.puts)

		// The second report comes from the cache without new calls.
		_, err = svc.RunTiming(context.Background(), "acme", "widgets", 42)
		require.NoError(t, err)
		assert.Len(t, client.calls, 2)
	})

	t.Run("in progress run is not cached", func(t *testing.T) {
		cache := newFakeCache()
		client := &scriptedClient{responses: []string{
			`{"id": 9, "status": "in_progress"}`,
			`{"jobs": []}`,
		}}
		svc := newTestService(t, client, cache)

		_, err := svc.RunTiming(context.Background(), "acme", "widgets", 9)
		require.NoError(t, err)
		assert.Empty(t, cache.puts)
	})
}

func TestListRunTiming_SkipsFailedRuns(t *testing.T) {
	page := runsPage(
		runJSON(1, "CI", ".github/workflows/ci.yml", "2026-03-09T00:00:00Z"),
		runJSON(2, "CI", ".github/workflows/ci.yml", "2026-03-08T00:00:00Z"),
	)
	client := &scriptedClient{
		responses: []string{page, timingRunBody, timingJobsBody, ""},
		errs:      []error{nil, nil, nil, &APIError{StatusCode: 500, Endpoint: "/x", Message: "boom"}},
	}
	svc := newTestService(t, client, nil)

	got, err := svc.ListRunTiming(context.Background(), "acme", "widgets", ListOptions{Limit: -1})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, json.Number("42"), got[0]["run_id"])
}

func TestListRunTiming_EmptyResult(t *testing.T) {
	client := &scriptedClient{responses: []string{runsPage()}}
	svc := newTestService(t, client, nil)

	got, err := svc.ListRunTiming(context.Background(), "acme", "widgets", ListOptions{Limit: -1})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Len(t, client.calls, 1)
}
