package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/johnnynv/DocSentry/internal/frontmatter"
	"github.com/johnnynv/DocSentry/pkg/logger"
	"github.com/johnnynv/DocSentry/pkg/utils"
)

// Group is a set of files that can share one test environment: same
// fixture apps, same server URL, same seed database.
type Group struct {
	TestApps      string   `json:"test_apps"`
	ServerURL     string   `json:"server_url"`
	LocalDatabase string   `json:"local_database"`
	Files         []string `json:"files"`
}

type groupKey struct {
	testApps      string
	serverURL     string
	localDatabase string
}

// SkippedFile records why a path was excluded from grouping
type SkippedFile struct {
	Path   string
	Reason string
}

// Grouping skip reasons
const (
	SkipUnreadable      = "Unable to read file"
	SkipNoFrontMatter   = "No valid front matter"
	SkipNoLocalDatabase = "Missing required field 'local_database'"
)

// GroupConfigs partitions files by test configuration. Groups keep the
// order in which their first member appeared; files inside a group keep
// input order. Files without a usable configuration are skipped, not
// failed.
func GroupConfigs(paths []string, parentLogger *logger.Entry) ([]Group, []SkippedFile) {
	log := parentLogger.WithFields(logger.Fields{
		"component": "runner",
		"operation": "group_configs",
	})

	index := make(map[groupKey]int)
	var groups []Group
	var skipped []SkippedFile

	for _, path := range paths {
		cfg, reason := readGroupConfig(path)
		if cfg == nil {
			skipped = append(skipped, SkippedFile{Path: path, Reason: reason})
			log.WithFile(path).WithField("reason", reason).Debug("Skipped file without test configuration")
			continue
		}

		key := groupKey{
			testApps:      cfg.AppsKey(),
			serverURL:     cfg.ServerURL,
			localDatabase: cfg.LocalDatabase,
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{
				TestApps:      key.testApps,
				ServerURL:     key.serverURL,
				LocalDatabase: key.localDatabase,
			})
		}
		groups[i].Files = append(groups[i].Files, path)
	}

	if len(skipped) > 0 {
		log.WithField("count", len(skipped)).Warn("Skipped files without valid test configuration")
	}
	log.WithFields(logger.Fields{
		"groups": len(groups),
		"files":  len(paths) - len(skipped),
	}).Info("Grouped test configurations")
	return groups, skipped
}

// readGroupConfig loads one file's test configuration, or a skip reason.
// Grouping only requires local_database; files may declare tests without
// fixture apps or a server URL.
func readGroupConfig(path string) (*frontmatter.TestConfig, string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, SkipUnreadable
	}
	meta, perr := frontmatter.Parse(string(raw))
	if perr != nil || len(meta) == 0 {
		return nil, SkipNoFrontMatter
	}
	cfg := meta.TestConfig()
	if cfg == nil || cfg.LocalDatabase == "" {
		return nil, SkipNoLocalDatabase
	}
	return cfg, ""
}

// SkipSummary renders the grouping skip report for stderr, matching the
// guidance shown when no files qualify at all.
func SkipSummary(groups []Group, skipped []SkippedFile) string {
	var b strings.Builder
	if len(skipped) > 0 {
		fmt.Fprintf(&b, "Warning: Skipped %d file(s) without valid test configuration:\n", len(skipped))
		for _, s := range skipped {
			fmt.Fprintf(&b, "  - %s: %s\n", s.Path, s.Reason)
		}
		b.WriteString("Note: Files need front matter with 'test.local_database' field to be included.\n")
		fmt.Fprintf(&b, "See: %s\n", utils.HelpURL("front_matter"))
	}
	if len(groups) == 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Warning: No files with valid test configuration found.\n")
		b.WriteString("Files must have front matter with 'test.local_database' field.\n")
		fmt.Fprintf(&b, "See: %s\n", utils.HelpURL("front_matter"))
	}
	return b.String()
}

// FormatGroupsJSON renders groups as a JSON document with a top-level
// "groups" array, always present even when empty.
func FormatGroupsJSON(groups []Group) (string, error) {
	if groups == nil {
		groups = []Group{}
	}
	doc := map[string][]Group{"groups": groups}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode groups: %w", err)
	}
	return string(out), nil
}

// FormatGroupsShell renders groups as shell variable assignments for
// consumption via eval in CI scripts. Group numbering is 1-based.
func FormatGroupsShell(groups []Group) string {
	var b strings.Builder
	for i, g := range groups {
		n := i + 1
		fmt.Fprintf(&b, "# Group %d\n", n)
		fmt.Fprintf(&b, "GROUP_%d_TEST_APPS=%s\n", n, shellQuote(g.TestApps))
		fmt.Fprintf(&b, "GROUP_%d_SERVER_URL=%s\n", n, shellQuote(g.ServerURL))
		fmt.Fprintf(&b, "GROUP_%d_LOCAL_DATABASE=%s\n", n, shellQuote(g.LocalDatabase))
		fmt.Fprintf(&b, "GROUP_%d_FILES=%s\n", n, shellQuote(strings.Join(g.Files, " ")))
		b.WriteString("\n")
	}
	b.WriteString("# Metadata\n")
	fmt.Fprintf(&b, "GROUP_COUNT=%d\n", len(groups))
	return b.String()
}

// shellQuote wraps a value in double quotes, escaping characters that
// are special inside them. Paths already passed the unsafe-character
// check, but URLs and app lists may hold anything.
func shellQuote(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"`", "\\`",
		`$`, `\$`,
	)
	return `"` + r.Replace(s) + `"`
}

// DatabasePath returns the seed database path from one file's front
// matter, relative to the repository root. A single leading slash is
// stripped so CI can join it onto a checkout directory.
func DatabasePath(path string) (string, error) {
	cfg, reason := readGroupConfig(path)
	if cfg == nil {
		return "", fmt.Errorf("no database path in %s (%s)", path, reason)
	}
	return strings.TrimPrefix(cfg.LocalDatabase, "/"), nil
}
