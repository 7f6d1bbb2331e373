package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

const apiPageSize = 100

// ListOptions narrows a run listing. A zero Days means no time window.
// Limit follows the CLI convention: negative means the caller left it
// unset, zero means unlimited, positive caps the result count.
type ListOptions struct {
	Workflow string
	Branch   string
	Status   string
	Days     int
	Limit    int
}

// effectiveLimit resolves the listing bound. An unset limit defaults
// to 10 runs, except when a day window already narrows the query, in
// which case everything inside the window is returned.
func (o ListOptions) effectiveLimit() int {
	if o.Limit < 0 {
		if o.Days > 0 {
			return 0
		}
		return 10
	}
	return o.Limit
}

// Service exposes the workflow reporting operations on top of a
// transport. Results stay as decoded JSON so callers can filter and
// reshape them without a schema for every GitHub payload.
type Service struct {
	client APIClient
	cache  RunCache
	logger *logger.Entry
	now    func() time.Time
}

// NewService creates a reporting service. The cache may be nil, in
// which case every timing lookup goes to the API.
func NewService(client APIClient, cache RunCache, parentLogger *logger.Entry) *Service {
	return &Service{
		client: client,
		cache:  cache,
		logger: parentLogger.WithFields(logger.Fields{
			"component": "workflow",
		}),
		now: time.Now,
	}
}

// ListRuns returns workflow runs for a repository, most recent first.
// The day window is applied both as an API filter and again client
// side, and the workflow filter matches the workflow file name or the
// exact workflow name.
func (s *Service) ListRuns(ctx context.Context, owner, repo string, opts ListOptions) ([]map[string]interface{}, error) {
	limit := opts.effectiveLimit()

	var cutoff time.Time
	if opts.Days > 0 {
		cutoff = s.now().UTC().Add(-time.Duration(opts.Days) * 24 * time.Hour)
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/actions/runs", owner, repo)
	runs := make([]map[string]interface{}, 0)

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("per_page", strconv.Itoa(apiPageSize))
		params.Set("page", strconv.Itoa(page))
		if !cutoff.IsZero() {
			params.Set("created", ">="+cutoff.Format(time.RFC3339))
		}
		if opts.Branch != "" {
			params.Set("branch", opts.Branch)
		}
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}

		body, err := s.client.Call(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		var payload struct {
			WorkflowRuns []map[string]interface{} `json:"workflow_runs"`
		}
		if err := decodeJSON(body, &payload); err != nil {
			return nil, &APIError{Endpoint: endpoint, Message: "invalid JSON in response: " + err.Error()}
		}
		if len(payload.WorkflowRuns) == 0 {
			break
		}

		pastCutoff := false
		for _, run := range payload.WorkflowRuns {
			if !cutoff.IsZero() && createdBefore(run, cutoff) {
				pastCutoff = true
				continue
			}
			if !matchesWorkflow(run, opts.Workflow) {
				continue
			}
			runs = append(runs, run)
			if limit > 0 && len(runs) == limit {
				return runs, nil
			}
		}
		// Runs arrive most recent first, so once a page crosses the
		// cutoff no later page can contain a run inside the window.
		if pastCutoff || len(payload.WorkflowRuns) < apiPageSize {
			break
		}
	}

	return runs, nil
}

// GetRun returns the full record for a single workflow run
func (s *Service) GetRun(ctx context.Context, owner, repo string, runID int64) (map[string]interface{}, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/actions/runs/%d", owner, repo, runID)
	body, err := s.client.Call(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var run map[string]interface{}
	if err := decodeJSON(body, &run); err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: "invalid JSON in response: " + err.Error()}
	}
	return run, nil
}

// ListJobs returns the jobs of a workflow run
func (s *Service) ListJobs(ctx context.Context, owner, repo string, runID int64) ([]map[string]interface{}, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/actions/runs/%d/jobs", owner, repo, runID)
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(apiPageSize))

	body, err := s.client.Call(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Jobs []map[string]interface{} `json:"jobs"`
	}
	if err := decodeJSON(body, &payload); err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: "invalid JSON in response: " + err.Error()}
	}
	if payload.Jobs == nil {
		payload.Jobs = []map[string]interface{}{}
	}
	return payload.Jobs, nil
}

// GetJob returns the full record for a single job
func (s *Service) GetJob(ctx context.Context, owner, repo string, jobID int64) (map[string]interface{}, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/actions/jobs/%d", owner, repo, jobID)
	body, err := s.client.Call(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var job map[string]interface{}
	if err := decodeJSON(body, &job); err != nil {
		return nil, &APIError{Endpoint: endpoint, Message: "invalid JSON in response: " + err.Error()}
	}
	return job, nil
}

// RunTiming returns the timing report for one run: run metadata, the
// run duration, per job durations and the summed job time.
func (s *Service) RunTiming(ctx context.Context, owner, repo string, runID int64) (map[string]interface{}, error) {
	runBody, jobsBody, err := s.runPayloads(ctx, owner, repo, runID)
	if err != nil {
		return nil, err
	}

	var run map[string]interface{}
	if err := decodeJSON(runBody, &run); err != nil {
		return nil, fmt.Errorf("invalid run payload for run %d: %w", runID, err)
	}
	var payload struct {
		Jobs []map[string]interface{} `json:"jobs"`
	}
	if err := decodeJSON(jobsBody, &payload); err != nil {
		return nil, fmt.Errorf("invalid jobs payload for run %d: %w", runID, err)
	}

	return buildTiming(run, payload.Jobs), nil
}

// ListRunTiming produces timing reports for every run matching the
// options. Runs whose details cannot be fetched are skipped with a
// warning rather than failing the whole report.
func (s *Service) ListRunTiming(ctx context.Context, owner, repo string, opts ListOptions) ([]map[string]interface{}, error) {
	runs, err := s.ListRuns(ctx, owner, repo, opts)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		s.logger.Info("No runs found matching criteria")
		return []map[string]interface{}{}, nil
	}

	results := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		runID, ok := numericID(run["id"])
		if !ok {
			s.logger.Warn("Run record has no usable id, skipping")
			continue
		}
		timing, err := s.RunTiming(ctx, owner, repo, runID)
		if err != nil {
			s.logger.WithRun(runID).WithError(err).Warnf("Skipping run %d: %v", runID, err)
			continue
		}
		results = append(results, timing)
	}
	return results, nil
}

// runPayloads returns the raw run and jobs bodies, consulting the
// cache first. Only completed runs are written back since their
// payloads never change.
func (s *Service) runPayloads(ctx context.Context, owner, repo string, runID int64) ([]byte, []byte, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, owner, repo, runID)
		if err != nil {
			s.logger.WithError(err).Warn("Run cache read failed, falling back to API")
		} else if cached != nil {
			s.logger.WithRun(runID).Debug("Run served from cache")
			return cached.RunJSON, cached.JobsJSON, nil
		}
	}

	runEndpoint := fmt.Sprintf("/repos/%s/%s/actions/runs/%d", owner, repo, runID)
	runBody, err := s.client.Call(ctx, runEndpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("could not get details for run %d: %w", runID, err)
	}

	params := url.Values{}
	params.Set("per_page", strconv.Itoa(apiPageSize))
	jobsBody, err := s.client.Call(ctx, runEndpoint+"/jobs", params)
	if err != nil {
		return nil, nil, fmt.Errorf("could not get jobs for run %d: %w", runID, err)
	}

	if s.cache != nil && runStatus(runBody) == "completed" {
		cached := &CachedRun{RunJSON: runBody, JobsJSON: jobsBody}
		if err := s.cache.Put(ctx, owner, repo, runID, cached); err != nil {
			s.logger.WithError(err).Warn("Run cache write failed")
		}
	}
	return runBody, jobsBody, nil
}

// buildTiming assembles the timing report for one run. Durations are
// nil when the underlying timestamps are absent, and nil durations do
// not count toward the job total.
func buildTiming(run map[string]interface{}, jobs []map[string]interface{}) map[string]interface{} {
	actor, _ := run["actor"].(map[string]interface{})
	if actor == nil {
		actor = map[string]interface{}{}
	}

	jobSummaries := make([]interface{}, 0, len(jobs))
	total := 0.0
	for _, job := range jobs {
		duration := durationSeconds(job, "started_at", "completed_at")
		if d, ok := duration.(float64); ok {
			total += d
		}
		jobSummaries = append(jobSummaries, map[string]interface{}{
			"name":             job["name"],
			"status":           job["status"],
			"conclusion":       job["conclusion"],
			"duration_seconds": duration,
		})
	}

	return map[string]interface{}{
		"run_id":                 run["id"],
		"run_name":               run["name"],
		"run_number":             run["run_number"],
		"run_created_at":         run["created_at"],
		"run_updated_at":         run["updated_at"],
		"run_status":             run["status"],
		"run_conclusion":         run["conclusion"],
		"run_duration_seconds":   durationSeconds(run, "run_started_at", "updated_at"),
		"actor":                  actor,
		"jobs":                   jobSummaries,
		"total_job_time_seconds": total,
	}
}

// durationSeconds returns the elapsed seconds between two timestamps
// on the record, or nil when either side is missing or unparseable.
func durationSeconds(record map[string]interface{}, startKey, endKey string) interface{} {
	start, ok := parseTimestamp(record[startKey])
	if !ok {
		return nil
	}
	end, ok := parseTimestamp(record[endKey])
	if !ok {
		return nil
	}
	return end.Sub(start).Seconds()
}

func parseTimestamp(value interface{}) (time.Time, bool) {
	raw, ok := value.(string)
	if !ok || raw == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// createdBefore reports whether a run predates the cutoff. Runs with
// a missing or malformed created_at are kept.
func createdBefore(run map[string]interface{}, cutoff time.Time) bool {
	created, ok := parseTimestamp(run["created_at"])
	if !ok {
		return false
	}
	return created.Before(cutoff)
}

func matchesWorkflow(run map[string]interface{}, workflow string) bool {
	if workflow == "" {
		return true
	}
	path, _ := run["path"].(string)
	name, _ := run["name"].(string)
	return strings.HasSuffix(path, workflow) || name == workflow
}

func runStatus(runBody []byte) string {
	var probe struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(runBody, &probe); err != nil {
		return ""
	}
	return probe.Status
}

// numericID extracts an id field decoded from JSON
func numericID(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		id, err := v.Int64()
		return id, err == nil
	case float64:
		return int64(v), true
	}
	return 0, false
}

// decodeJSON decodes with UseNumber so large ids survive the trip
// through interface{} without losing precision.
func decodeJSON(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
