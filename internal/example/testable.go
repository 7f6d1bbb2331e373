// Package example locates documented API examples, prepares their curl
// commands, and executes them against a running server.
package example

import (
	"strconv"
	"strings"
)

// Testable is one front matter entry naming an example and the HTTP
// status codes its request may return.
type Testable struct {
	Name  string
	Codes []int
}

// ParseTestableEntry parses a "name / codes" entry. The code list is
// comma-separated and defaults to 200 when the slash is absent. An empty
// name, an empty code list, or a non-integer code makes the entry
// invalid, returning nil.
func ParseTestableEntry(entry string) *Testable {
	parts := strings.Split(entry, "/")

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return nil
	}

	if len(parts) == 1 {
		return &Testable{Name: name, Codes: []int{200}}
	}

	codesField := strings.TrimSpace(parts[1])
	if codesField == "" {
		return nil
	}

	var codes []int
	for _, piece := range strings.Split(codesField, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		code, err := strconv.Atoi(piece)
		if err != nil {
			return nil
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil
	}

	return &Testable{Name: name, Codes: codes}
}

// CodesString joins the allowed codes for diagnostics, "200 or 204" style
func (t *Testable) CodesString() string {
	parts := make([]string, len(t.Codes))
	for i, code := range t.Codes {
		parts[i] = strconv.Itoa(code)
	}
	return strings.Join(parts, " or ")
}
