package workflow

import "strings"

// ParseFields splits a comma separated field list, dropping empty
// entries left by stray commas.
func ParseFields(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

// FilterFields reduces decoded JSON to the requested fields. Dotted
// paths select nested members, grouped by their first segment so that
// "actor.login" and "actor.id" descend into "actor" together. Nested
// containers that filter down to nothing are dropped, while matching
// top level fields are kept even when their value is empty.
func FilterFields(data interface{}, fields []string) interface{} {
	if len(fields) == 0 {
		return data
	}
	switch v := data.(type) {
	case []map[string]interface{}:
		items := make([]interface{}, len(v))
		for i, item := range v {
			items[i] = item
		}
		return FilterFields(items, fields)
	case []interface{}:
		result := make([]interface{}, 0, len(v))
		for _, item := range v {
			switch item.(type) {
			case map[string]interface{}, []interface{}:
				filtered := FilterFields(item, fields)
				if !isEmptyContainer(filtered) {
					result = append(result, filtered)
				}
			default:
				result = append(result, item)
			}
		}
		return result
	case map[string]interface{}:
		return filterMap(v, fields)
	default:
		return data
	}
}

func filterMap(data map[string]interface{}, fields []string) map[string]interface{} {
	var simple []string
	nested := make(map[string][]string)
	for _, field := range fields {
		head, rest, found := strings.Cut(field, ".")
		if !found {
			simple = append(simple, field)
			continue
		}
		nested[head] = append(nested[head], rest)
	}

	out := make(map[string]interface{})
	for _, field := range simple {
		if value, ok := data[field]; ok {
			out[field] = value
		}
	}
	for head, rests := range nested {
		value, ok := data[head]
		if !ok {
			continue
		}
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			filtered := FilterFields(value, rests)
			if !isEmptyContainer(filtered) {
				out[head] = filtered
			}
		}
	}
	return out
}

func isEmptyContainer(value interface{}) bool {
	switch v := value.(type) {
	case map[string]interface{}:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	}
	return false
}
