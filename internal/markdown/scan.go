// Package markdown provides the line-oriented scanning used by the doc
// test tools: example code block lookup, prose statistics, and linter
// exception tags. Documents are scanned, never rendered.
package markdown

import (
	"regexp"
	"strings"
)

// Role identifies which half of a documented example a heading introduces
type Role string

const (
	RoleRequest  Role = "request"
	RoleResponse Role = "response"
)

// headingPattern matches a level 3 or 4 heading whose text starts with the
// example name and the role word. Words may be wrapped in backticks, so
// "GET example" also matches "### `GET` example request".
func headingPattern(name string, role Role) *regexp.Regexp {
	words := strings.Fields(name)
	parts := make([]string, len(words))
	for i, word := range words {
		parts[i] = "`?" + regexp.QuoteMeta(word) + "`?"
	}
	return regexp.MustCompile(`(?i)^####?\s+` + strings.Join(parts, `\s+`) + `\s+` + string(role))
}

func openingFence(trimmed string, role Role) bool {
	if role == RoleResponse {
		return strings.HasPrefix(trimmed, "```json")
	}
	return strings.HasPrefix(trimmed, "```bash") || strings.HasPrefix(trimmed, "```sh")
}

// ExampleBlock returns the first fenced code block of the role's language
// following the example's heading. Scanning stops at the next heading; a
// '#' line inside an open fence is code, not a heading.
func ExampleBlock(content, name string, role Role) (string, bool) {
	heading := headingPattern(name, role)
	inExample := false
	inCode := false
	var collected []string

	for _, line := range strings.Split(content, "\n") {
		if !inExample {
			if heading.MatchString(line) {
				inExample = true
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if inCode {
			if trimmed == "```" {
				break
			}
			collected = append(collected, line)
			continue
		}

		if openingFence(trimmed, role) {
			inCode = true
			continue
		}
		if strings.HasPrefix(line, "#") {
			break
		}
	}

	if len(collected) == 0 {
		return "", false
	}
	return strings.Join(collected, "\n"), true
}
