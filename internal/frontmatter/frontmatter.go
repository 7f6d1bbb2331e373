// Package frontmatter extracts and validates the YAML metadata block at
// the top of Markdown documentation files.
package frontmatter

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the parsed front matter mapping
type Metadata map[string]interface{}

// ParseError describes why front matter could not be extracted or parsed.
// Line is 1-based in the source file, 0 when unknown.
type ParseError struct {
	Message string
	Line    int
}

func (e *ParseError) Error() string {
	return e.Message
}

var (
	// Opening delimiter must be the file's first line; each delimiter is
	// the sole content of its line apart from trailing spaces or tabs.
	frontMatterPattern  = regexp.MustCompile(`(?s)^---[ \t]*\n(.*?)\n---[ \t]*(?:\n|$)`)
	leadingSpacePattern = regexp.MustCompile(`^\s+---`)
	yamlLinePattern     = regexp.MustCompile(`line (\d+)`)
)

// Extract returns the raw YAML text between the front matter delimiters
func Extract(content string) (string, *ParseError) {
	match := frontMatterPattern.FindStringSubmatch(content)
	if match != nil {
		return match[1], nil
	}

	if leadingSpacePattern.MatchString(content) {
		return "", &ParseError{
			Message: "Front matter delimiter has leading whitespace. " +
				"The '---' must be at the start of the line with no spaces or tabs before it.",
			Line: 1,
		}
	}

	if strings.HasPrefix(strings.TrimSpace(content), "---") {
		return "", &ParseError{
			Message: "Front matter opening delimiter found but no closing delimiter could be found. " +
				"Ensure front matter ends with '---' on its own line.",
			Line: 1,
		}
	}

	return "", &ParseError{
		Message: "No front matter found. Add YAML front matter between --- delimiters at the start of the file.",
		Line:    1,
	}
}

// Parse extracts and decodes the front matter mapping
func Parse(content string) (Metadata, *ParseError) {
	raw, perr := Extract(content)
	if perr != nil {
		return nil, perr
	}

	var meta Metadata
	if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
		msg := fmt.Sprintf("Invalid YAML syntax in front matter: %v", err)
		line := yamlErrorLine(err)
		if line > 0 {
			msg += fmt.Sprintf(" (on or near line %d)", line)
		}
		return nil, &ParseError{Message: msg, Line: line}
	}
	return meta, nil
}

// yamlErrorLine maps a yaml.v3 error line onto the source file.
// The opening delimiter occupies line 1, so YAML line n is file line n+1.
func yamlErrorLine(err error) int {
	match := yamlLinePattern.FindStringSubmatch(err.Error())
	if match == nil {
		return 0
	}
	n, convErr := strconv.Atoi(match[1])
	if convErr != nil || n < 1 {
		return 0
	}
	return n + 1
}

// TestConfig is the "test" sub-object driving example execution
type TestConfig struct {
	ServerURL     string
	LocalDatabase string
	TestApps      []string
	Testables     []string
}

// AppsKey returns the comma-joined app list used for grouping files
func (c *TestConfig) AppsKey() string {
	apps := make([]string, len(c.TestApps))
	copy(apps, c.TestApps)
	sort.Strings(apps)
	return strings.Join(apps, ",")
}

// TestConfig returns the typed test block, or nil when absent
func (m Metadata) TestConfig() *TestConfig {
	raw, ok := m["test"].(map[string]interface{})
	if !ok {
		return nil
	}

	cfg := &TestConfig{}
	if s, ok := raw["server_url"].(string); ok {
		cfg.ServerURL = s
	}
	if s, ok := raw["local_database"].(string); ok {
		cfg.LocalDatabase = s
	}
	cfg.TestApps = stringList(raw["test_apps"])
	cfg.Testables = stringList(raw["testable"])
	return cfg
}

// stringList coerces a YAML sequence to strings; scalars stringify so a
// malformed entry still reaches the per-entry validation downstream
func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprintf("%v", item))
	}
	return out
}
