package frontmatter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultSchemaPath is where the repository keeps the front matter schema
const DefaultSchemaPath = "schemas/front-matter-schema.json"

var (
	schemaCacheMu sync.Mutex
	schemaCache   = make(map[string]*jsonschema.Schema)

	quotedNamePattern = regexp.MustCompile(`'([^']+)'`)
)

// SchemaReport is the outcome of validating front matter against a schema.
// Errors are violations of required fields; warnings cover optional fields.
// A missing or broken schema file skips validation instead of failing it.
type SchemaReport struct {
	Errors     []string
	Warnings   []string
	Skipped    bool
	SkipReason string
}

// Valid reports whether no required-field violations were found
func (r *SchemaReport) Valid() bool {
	return len(r.Errors) == 0
}

// ClearSchemaCache drops all cached compiled schemas
func ClearSchemaCache() {
	schemaCacheMu.Lock()
	defer schemaCacheMu.Unlock()
	schemaCache = make(map[string]*jsonschema.Schema)
}

func loadCompiledSchema(schemaPath string) (*jsonschema.Schema, error) {
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, err
	}

	schemaCacheMu.Lock()
	if cached, ok := schemaCache[abs]; ok {
		schemaCacheMu.Unlock()
		return cached, nil
	}
	schemaCacheMu.Unlock()

	if _, err := os.Stat(abs); err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile("file://" + filepath.ToSlash(abs))
	if err != nil {
		return nil, err
	}

	schemaCacheMu.Lock()
	schemaCache[abs] = compiled
	schemaCacheMu.Unlock()
	return compiled, nil
}

// ValidateSchema checks the metadata against the JSON schema at schemaPath
func ValidateSchema(meta Metadata, schemaPath string) *SchemaReport {
	schema, err := loadCompiledSchema(schemaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &SchemaReport{
				Skipped:    true,
				SkipReason: fmt.Sprintf("Schema file not found: %s", schemaPath),
			}
		}
		return &SchemaReport{
			Skipped:    true,
			SkipReason: fmt.Sprintf("Invalid JSON schema: %v", err),
		}
	}

	// The validator expects the JSON value model, so the YAML mapping is
	// round-tripped through encoding/json first.
	doc, err := toJSONValue(meta)
	if err != nil {
		return &SchemaReport{
			Skipped:    true,
			SkipReason: fmt.Sprintf("Front matter is not representable as JSON: %v", err),
		}
	}

	report := &SchemaReport{}
	if err := schema.Validate(doc); err != nil {
		verr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			report.Errors = append(report.Errors, err.Error())
			return report
		}
		for _, leaf := range leafCauses(verr) {
			critical, messages := categorizeIssue(leaf, schema.Required)
			if critical {
				report.Errors = append(report.Errors, messages...)
			} else {
				report.Warnings = append(report.Warnings, messages...)
			}
		}
		sort.Strings(report.Errors)
		sort.Strings(report.Warnings)
	}
	return report
}

func toJSONValue(meta Metadata) (interface{}, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// leafCauses flattens the validation error tree to its leaf violations
func leafCauses(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}

// categorizeIssue decides whether a violation is critical. Missing required
// keys are always critical; value violations are critical only when the
// offending top-level key is itself required.
func categorizeIssue(err *jsonschema.ValidationError, required []string) (bool, []string) {
	keyword := lastPointerSegment(err.KeywordLocation)
	field := pointerToDotted(err.InstanceLocation)

	switch keyword {
	case "required":
		names := quotedNamePattern.FindAllStringSubmatch(err.Message, -1)
		if len(names) == 0 {
			return true, []string{"Required field missing: unknown"}
		}
		messages := make([]string, 0, len(names))
		for _, name := range names {
			messages = append(messages, "Required field missing: "+name[1])
		}
		return true, messages

	case "enum":
		if field != "" && isRequiredField(field, required) {
			return true, []string{fmt.Sprintf("Invalid value for required field '%s': %s", field, err.Message)}
		}
		return false, []string{fmt.Sprintf("Invalid value for optional field '%s': %s", field, err.Message)}

	case "type", "format", "pattern", "minimum", "maximum", "minLength", "maxLength":
		if field != "" && isRequiredField(field, required) {
			return true, []string{fmt.Sprintf("Invalid format for required field '%s': %s", field, err.Message)}
		}
		return false, []string{fmt.Sprintf("Invalid format for optional field '%s': %s", field, err.Message)}
	}

	if field == "" {
		field = "unknown"
	}
	return false, []string{fmt.Sprintf("Validation issue in '%s': %s", field, err.Message)}
}

func isRequiredField(dottedField string, required []string) bool {
	head := dottedField
	if i := strings.Index(dottedField, "."); i >= 0 {
		head = dottedField[:i]
	}
	for _, name := range required {
		if name == head {
			return true
		}
	}
	return false
}

func lastPointerSegment(pointer string) string {
	if pointer == "" {
		return ""
	}
	segments := strings.Split(pointer, "/")
	return unescapePointer(segments[len(segments)-1])
}

func pointerToDotted(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	segments := strings.Split(pointer, "/")
	for i, segment := range segments {
		segments[i] = unescapePointer(segment)
	}
	return strings.Join(segments, ".")
}

func unescapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}
