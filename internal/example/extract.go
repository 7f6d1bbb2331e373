package example

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/johnnynv/DocSentry/internal/markdown"
)

// ServerURLPlaceholder is the token documentation uses where the live
// server's base URL belongs.
const ServerURLPlaceholder = "{server_url}"

var (
	curlWordPattern  = regexp.MustCompile(`\bcurl\b`)
	shortFlagPattern = regexp.MustCompile(`^-[A-Za-z]+$`)
)

// NotFoundError reports a documented example block that is missing or
// unusable.
type NotFoundError struct {
	Example string
	Role    markdown.Role
	Reason  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("example %q: %s", e.Example, e.Reason)
}

// PrepareCommand extracts the example's request block and returns the
// command to run: `-i` is injected after the first curl token unless an
// include flag is already present, and the server URL placeholder is
// replaced when serverURL is non-empty.
func PrepareCommand(content, serverURL, name string) (string, error) {
	block, ok := markdown.ExampleBlock(content, name, markdown.RoleRequest)
	if !ok {
		return "", &NotFoundError{Example: name, Role: markdown.RoleRequest,
			Reason: "no request block found"}
	}

	command := strings.TrimSpace(block)
	if command == "" {
		return "", &NotFoundError{Example: name, Role: markdown.RoleRequest,
			Reason: "request block is empty"}
	}
	if curlWordPattern.FindStringIndex(command) == nil {
		return "", &NotFoundError{Example: name, Role: markdown.RoleRequest,
			Reason: "no curl command in request block"}
	}

	if !hasIncludeFlag(command) {
		command = injectIncludeFlag(command)
	}
	if serverURL != "" {
		command = strings.ReplaceAll(command, ServerURLPlaceholder, serverURL)
	}

	return command, nil
}

// ExpectedResponse extracts and decodes the example's documented JSON
// response. A missing block and an undecodable block are the same
// failure; both mean the documentation cannot be compared against.
func ExpectedResponse(content, name string) (interface{}, error) {
	block, ok := markdown.ExampleBlock(content, name, markdown.RoleResponse)
	if !ok {
		return nil, &NotFoundError{Example: name, Role: markdown.RoleResponse,
			Reason: "no response block found"}
	}

	var value interface{}
	if err := json.Unmarshal([]byte(block), &value); err != nil {
		return nil, &NotFoundError{Example: name, Role: markdown.RoleResponse,
			Reason: "response block is not valid JSON"}
	}

	return value, nil
}

// hasIncludeFlag looks for --include or a combined short flag carrying
// 'i' among the command's fields. Substring checks would false-match
// flags like --insecure.
func hasIncludeFlag(command string) bool {
	for _, field := range strings.Fields(command) {
		if field == "--include" {
			return true
		}
		if shortFlagPattern.MatchString(field) && strings.Contains(field, "i") {
			return true
		}
	}
	return false
}

// injectIncludeFlag adds -i after the first curl token so response
// headers arrive with the body.
func injectIncludeFlag(command string) string {
	loc := curlWordPattern.FindStringIndex(command)
	if loc == nil {
		return command
	}
	return command[:loc[1]] + " -i" + command[loc[1]:]
}
