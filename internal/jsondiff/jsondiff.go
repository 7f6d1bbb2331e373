// Package jsondiff compares decoded JSON values and reports every
// difference with a dotted path. Inputs are the value model produced by
// encoding/json: map[string]interface{}, []interface{}, string, float64,
// bool and nil.
package jsondiff

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind labels one category of difference
type Kind string

const (
	KindType       Kind = "type"
	KindMissingKey Kind = "missing-key"
	KindExtraKey   Kind = "extra-key"
	KindLength     Kind = "length"
	KindValue      Kind = "value"
)

// Difference is a single divergence between actual and expected values.
// Warning marks differences that do not fail a comparison on their own.
type Difference struct {
	Path    string
	Kind    Kind
	Message string
	Warning bool
}

// Compare walks actual against expected and accumulates every difference.
// A kind mismatch stops descent below that node; so does an array length
// mismatch.
func Compare(actual, expected interface{}) []Difference {
	var diffs []Difference
	compareValue(actual, expected, "root", &diffs)
	return diffs
}

// Split separates hard differences from warnings, preserving order
func Split(diffs []Difference) (errors, warnings []Difference) {
	for _, d := range diffs {
		if d.Warning {
			warnings = append(warnings, d)
		} else {
			errors = append(errors, d)
		}
	}
	return errors, warnings
}

// Equal reports whether the differences contain nothing beyond warnings
func Equal(diffs []Difference) bool {
	for _, d := range diffs {
		if !d.Warning {
			return false
		}
	}
	return true
}

func compareValue(actual, expected interface{}, path string, diffs *[]Difference) {
	actualKind := jsonKind(actual)
	expectedKind := jsonKind(expected)
	if actualKind != expectedKind {
		*diffs = append(*diffs, Difference{
			Path: path,
			Kind: KindType,
			Message: fmt.Sprintf("Type mismatch at %s: expected %s, got %s",
				path, expectedKind, actualKind),
		})
		return
	}

	switch exp := expected.(type) {
	case map[string]interface{}:
		compareObject(actual.(map[string]interface{}), exp, path, diffs)
	case []interface{}:
		compareArray(actual.([]interface{}), exp, path, diffs)
	default:
		if actual != expected {
			*diffs = append(*diffs, Difference{
				Path: path,
				Kind: KindValue,
				Message: fmt.Sprintf("Value mismatch at %s: expected %s, got %s",
					path, formatScalar(expected), formatScalar(actual)),
			})
		}
	}
}

// compareObject reports missing keys first, then extra keys, then
// recurses into the keys both sides share. Keys are visited sorted so
// output is deterministic.
func compareObject(actual, expected map[string]interface{}, path string, diffs *[]Difference) {
	expectedKeys := sortedKeys(expected)

	for _, key := range expectedKeys {
		if _, ok := actual[key]; !ok {
			keyPath := path + "." + key
			*diffs = append(*diffs, Difference{
				Path:    keyPath,
				Kind:    KindMissingKey,
				Message: fmt.Sprintf("Missing key at %s", keyPath),
			})
		}
	}

	for _, key := range sortedKeys(actual) {
		if _, ok := expected[key]; !ok {
			keyPath := path + "." + key
			*diffs = append(*diffs, Difference{
				Path:    keyPath,
				Kind:    KindExtraKey,
				Message: fmt.Sprintf("Extra key at %s", keyPath),
				Warning: true,
			})
		}
	}

	for _, key := range expectedKeys {
		if value, ok := actual[key]; ok {
			compareValue(value, expected[key], path+"."+key, diffs)
		}
	}
}

func compareArray(actual, expected []interface{}, path string, diffs *[]Difference) {
	if len(actual) != len(expected) {
		*diffs = append(*diffs, Difference{
			Path: path,
			Kind: KindLength,
			Message: fmt.Sprintf("List length mismatch at %s: expected %d items, got %d",
				path, len(expected), len(actual)),
		})
		return
	}

	for i := range expected {
		compareValue(actual[i], expected[i], fmt.Sprintf("%s[%d]", path, i), diffs)
	}
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

func formatScalar(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return "null"
	}
	return fmt.Sprintf("%v", v)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
