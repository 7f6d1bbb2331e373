package csvfmt

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Format renders records as CSV per the schema. A single map renders
// as one row. Empty input produces an empty string without a header,
// so appending empty results leaves existing files untouched.
func Format(data interface{}, schema *Schema) (string, error) {
	items := normalizeItems(data)
	if len(items) == 0 || len(schema.Fields) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	header := make([]string, len(schema.Fields))
	for i, field := range schema.Fields {
		header[i] = field.Column
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, item := range items {
		for _, row := range expandRows(item, schema.Expand) {
			record := make([]string, len(schema.Fields))
			for i, field := range schema.Fields {
				record[i] = formatValue(nestedValue(row, field.Source), field.Type, field.Format)
			}
			if err := writer.Write(record); err != nil {
				return "", err
			}
		}
	}

	writer.Flush()
	return buf.String(), writer.Error()
}

// Save writes CSV content to path. In append mode the header line is
// dropped when the destination already has content, so repeated runs
// build one continuous table.
func Save(content, path string, appendMode bool) error {
	if appendMode {
		if info, err := os.Stat(path); err == nil {
			if info.Size() > 0 {
				_, rest, _ := strings.Cut(content, "\n")
				content = rest
			}
			file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}
			defer file.Close()
			_, err = file.WriteString(content)
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func normalizeItems(data interface{}) []interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		return []interface{}{v}
	case []interface{}:
		return v
	case []map[string]interface{}:
		items := make([]interface{}, len(v))
		for i, item := range v {
			items[i] = item
		}
		return items
	default:
		return nil
	}
}

// expandRows turns one record into one row per element of the expand
// field. The element replaces the array on a shallow copy, so a source
// like "jobs.name" resolves through the single element.
func expandRows(item interface{}, expand string) []interface{} {
	if expand == "" {
		return []interface{}{item}
	}
	record, ok := item.(map[string]interface{})
	if !ok {
		return []interface{}{item}
	}
	elements, ok := record[expand].([]interface{})
	if !ok || len(elements) == 0 {
		return []interface{}{item}
	}

	rows := make([]interface{}, 0, len(elements))
	for _, element := range elements {
		row := make(map[string]interface{}, len(record))
		for key, value := range record {
			row[key] = value
		}
		row[expand] = element
		rows = append(rows, row)
	}
	return rows
}

// nestedValue resolves a dotted path, or nil when any step is missing
func nestedValue(data interface{}, path string) interface{} {
	current := data
	for _, part := range strings.Split(path, ".") {
		record, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current, ok = record[part]
		if !ok {
			return nil
		}
	}
	return current
}

// formatValue coerces one cell. Unconvertible numeric values become
// empty cells rather than failing the whole export.
func formatValue(value interface{}, fieldType, layout string) string {
	if value == nil {
		return ""
	}
	switch fieldType {
	case "integer":
		return formatInteger(value)
	case "float":
		return formatFloatValue(value)
	case "boolean":
		if b, ok := value.(bool); ok {
			return strconv.FormatBool(b)
		}
		return strings.ToLower(toString(value))
	case "timestamp":
		return formatTimestamp(value, layout)
	case "url":
		return toString(value)
	default:
		return toString(value)
	}
}

func formatInteger(value interface{}) string {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := v.Float64(); err == nil {
			return strconv.FormatInt(int64(f), 10)
		}
		return ""
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return ""
	default:
		return ""
	}
}

func formatFloatValue(value interface{}) string {
	switch v := value.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return formatFloat(f)
		}
		return ""
	case float64:
		return formatFloat(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return formatFloat(f)
		}
		return ""
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatTimestamp reformats an RFC 3339 timestamp with the given
// layout. Without a layout, or when parsing fails, the raw value
// passes through unchanged.
func formatTimestamp(value interface{}, layout string) string {
	raw, ok := value.(string)
	if !ok {
		return toString(value)
	}
	if raw == "" {
		return ""
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil || layout == "" {
		return raw
	}
	return parsed.Format(layout)
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatFloat(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
