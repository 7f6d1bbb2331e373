// Package runner drives documentation example tests across Markdown
// files and groups files by their shared test configuration.
package runner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/johnnynv/DocSentry/internal/annotate"
	"github.com/johnnynv/DocSentry/internal/example"
	"github.com/johnnynv/DocSentry/internal/frontmatter"
	"github.com/johnnynv/DocSentry/internal/jsondiff"
	"github.com/johnnynv/DocSentry/pkg/logger"
	"github.com/johnnynv/DocSentry/pkg/utils"
)

// maxDifferencesShown caps the diff lines reported per failed example
const maxDifferencesShown = 10

// FileResult aggregates example outcomes for one documentation file.
// Skipped counts files that produced no tests at all.
type FileResult struct {
	Tested  int
	Passed  int
	Failed  int
	Skipped int
}

// Add merges another result into r
func (r *FileResult) Add(other FileResult) {
	r.Tested += other.Tested
	r.Passed += other.Passed
	r.Failed += other.Failed
	r.Skipped += other.Skipped
}

// Runner ties front matter checks, example extraction, execution and
// response comparison together for whole files.
type Runner struct {
	exec       *example.Runner
	out        *annotate.Writer
	logger     *logger.Entry
	schemaPath string
	serverURL  string
	skipSchema bool
}

// NewRunner creates a file test runner. An empty schemaPath selects the
// repository default schema location.
func NewRunner(exec *example.Runner, out *annotate.Writer, parentLogger *logger.Entry, schemaPath string) *Runner {
	if schemaPath == "" {
		schemaPath = frontmatter.DefaultSchemaPath
	}
	return &Runner{
		exec: exec,
		out:  out,
		logger: parentLogger.WithFields(logger.Fields{
			"component": "runner",
		}),
		schemaPath: schemaPath,
	}
}

// SetServerURL forces one server URL for every file, overriding the
// front matter value.
func (r *Runner) SetServerURL(url string) {
	r.serverURL = url
}

// SetSkipSchema disables front matter schema validation. Parsing is
// still required; only the schema check is bypassed.
func (r *Runner) SetSkipSchema(skip bool) {
	r.skipSchema = skip
}

// TestFile runs every testable example declared in one file's front
// matter. Files without usable front matter or test configuration are
// skipped; they never fail the run by themselves.
func (r *Runner) TestFile(ctx context.Context, path string) FileResult {
	banner := strings.Repeat("=", 60)
	r.out.Info(banner)
	r.out.Info("Testing file: " + path)
	r.out.Info(banner)

	raw, err := os.ReadFile(path)
	if err != nil {
		r.out.Error("File not found or unreadable: "+path, path, 0)
		return FileResult{Skipped: 1}
	}
	content := string(raw)

	meta, perr := frontmatter.Parse(content)
	if perr != nil || len(meta) == 0 {
		line := 0
		if perr != nil {
			line = perr.Line
			r.logger.WithFile(path).WithField("reason", perr.Message).Debug("Front matter parsing failed")
		}
		r.out.Error("Front matter is required for all documentation files", path, line)
		r.out.Info("-  Help: " + utils.HelpURL("front_matter"))
		return FileResult{Skipped: 1}
	}

	if !r.skipSchema && !r.validateFrontMatter(meta, path) {
		r.out.Error("Front matter validation failed. Fix errors before testing examples", path, 0)
		return FileResult{Skipped: 1}
	}

	cfg := meta.TestConfig()
	if cfg == nil {
		r.out.Info("No test configuration found in front matter")
		return FileResult{Skipped: 1}
	}
	if len(cfg.Testables) == 0 {
		r.out.Info("No testable examples marked in front matter")
		return FileResult{Skipped: 1}
	}

	r.out.Info(fmt.Sprintf("Testable examples found: %d", len(cfg.Testables)))
	for _, item := range cfg.Testables {
		r.out.Info("  - " + item)
	}

	result := FileResult{Tested: len(cfg.Testables)}
	for _, entry := range cfg.Testables {
		testable := example.ParseTestableEntry(entry)
		if testable == nil {
			r.out.Error("Invalid testable entry format: "+entry, path, 0)
			result.Failed++
			continue
		}
		if r.testExample(ctx, content, cfg, testable, path) {
			result.Passed++
		} else {
			result.Failed++
		}
	}
	return result
}

// validateFrontMatter reports schema findings and decides whether example
// testing may proceed. A missing or broken schema file downgrades to a
// warning and lets the file through.
func (r *Runner) validateFrontMatter(meta frontmatter.Metadata, path string) bool {
	report := frontmatter.ValidateSchema(meta, r.schemaPath)

	if report.Skipped {
		r.out.Warning(report.SkipReason, path, 0)
		return true
	}

	if len(report.Errors) > 0 {
		r.out.Error("Front matter validation errors found:", path, 0)
		for _, msg := range report.Errors {
			r.out.Error("  - "+msg, path, 0)
		}
		r.out.Info("-  Help: " + utils.HelpURL("front_matter"))
	}
	if len(report.Warnings) > 0 {
		r.out.Warning("Front matter validation warnings:", path, 0)
		for _, msg := range report.Warnings {
			r.out.Warning("  - "+msg, path, 0)
		}
	}
	if len(report.Errors) == 0 && len(report.Warnings) == 0 {
		r.out.Success("Front matter validation passed")
	}

	if !report.Valid() {
		return false
	}
	if len(report.Warnings) > 0 {
		r.out.Warning("Front matter has warnings but is valid enough to continue", path, 0)
	}
	return true
}

func (r *Runner) testExample(ctx context.Context, content string, cfg *frontmatter.TestConfig, testable *example.Testable, path string) bool {
	r.out.Info("Testing example: " + testable.Name)

	serverURL := cfg.ServerURL
	if r.serverURL != "" {
		serverURL = r.serverURL
	}
	command, err := example.PrepareCommand(content, serverURL, testable.Name)
	if err != nil {
		r.out.Warning(fmt.Sprintf("Could not find example '%s' or it is not formatted correctly", testable.Name), path, 0)
		r.out.Info(fmt.Sprintf("Expected format: '### %s request' section with bash code block", testable.Name))
		r.out.Info("-  Help: " + utils.HelpURL("example_format"))
		return false
	}

	r.out.Info("  Command: " + truncate(command, 80) + "...")

	resp, err := r.exec.Execute(ctx, command)
	if err != nil {
		r.out.Error(fmt.Sprintf("Example '%s' failed: %s", testable.Name, err.Error()), path, 0)
		return false
	}

	r.out.Info(fmt.Sprintf("  Status: %d", resp.Status))

	if !allowedStatus(testable.Codes, resp.Status) {
		r.out.Error(fmt.Sprintf("Example '%s' failed; expected HTTP %s, got %d",
			testable.Name, testable.CodesString(), resp.Status), path, 0)
		return false
	}

	r.out.Success(fmt.Sprintf("  HTTP %d (success)", resp.Status))

	actual, err := resp.DecodeJSON()
	if err != nil {
		r.out.Error(fmt.Sprintf("Example '%s' failed: Response is not valid JSON", testable.Name), path, 0)
		r.out.Info("  Response: " + truncate(resp.Body, 200))
		return false
	}
	r.out.Success("  Valid JSON response received")

	expected, err := example.ExpectedResponse(content, testable.Name)
	if err != nil {
		r.out.Warning(fmt.Sprintf("Could not find documented response for '%s' or it is not formatted correctly", testable.Name), path, 0)
		r.out.Info(fmt.Sprintf("Expected format: '### %s response' section with json code block", testable.Name))
		r.out.Info("-  Help: " + utils.HelpURL("example_format"))
		return false
	}

	errors, warnings := jsondiff.Split(jsondiff.Compare(actual, expected))

	for _, diff := range warnings {
		r.out.Warning("  "+diff.Message, path, 0)
	}

	if len(errors) == 0 {
		if len(warnings) == 0 {
			r.out.Success("  Response matches documentation exactly")
		} else {
			r.out.Success("  Response matches documentation (extra fields are warnings)")
		}
		r.out.Success(fmt.Sprintf("  ✓ Example '%s' PASSED", testable.Name))
		return true
	}

	r.out.Error(fmt.Sprintf("Example '%s' failed: Response does not match documentation", testable.Name), path, 0)
	r.out.Info(fmt.Sprintf("  Differences found: %d", len(errors)))
	for i, diff := range errors {
		if i == maxDifferencesShown {
			break
		}
		r.out.Info("    • " + diff.Message)
	}
	if len(errors) > maxDifferencesShown {
		r.out.Info(fmt.Sprintf("  ... and %d more differences", len(errors)-maxDifferencesShown))
	}
	return false
}

func allowedStatus(codes []int, status int) bool {
	for _, code := range codes {
		if code == status {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
