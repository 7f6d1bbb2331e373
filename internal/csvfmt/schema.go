// Package csvfmt reshapes JSON records into CSV using declarative
// YAML schemas. A schema names the source path, column header and
// type coercion for each cell, and can expand one array field into
// multiple rows.
package csvfmt

import (
	"embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.yaml
var builtinSchemas embed.FS

// Field maps one JSON path to one CSV column
type Field struct {
	Source string `yaml:"source"`
	Column string `yaml:"column"`
	Type   string `yaml:"type"`
	Format string `yaml:"format,omitempty"`
}

// Schema describes how records become CSV rows. Expand names an array
// field whose elements each produce a row, with the record's scalar
// fields repeated on every one.
type Schema struct {
	Name        string  `yaml:"-"`
	Description string  `yaml:"description"`
	Mode        string  `yaml:"mode"`
	Format      string  `yaml:"format"`
	Expand      string  `yaml:"expand,omitempty"`
	Fields      []Field `yaml:"fields"`
}

// LoadSchema reads a schema definition from a YAML file
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema file not found: %s", path)
	}
	schema, err := ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}

// ParseSchema decodes the first schema definition in the document.
// Schema files hold a single top level mapping whose key names the
// schema and whose value holds the definition.
func ParseSchema(data []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML in schema: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, errors.New("schema file is empty")
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode || len(root.Content) < 2 {
		return nil, errors.New("schema file must contain one top level definition")
	}

	var schema Schema
	if err := root.Content[1].Decode(&schema); err != nil {
		return nil, fmt.Errorf("invalid YAML in schema: %w", err)
	}
	schema.Name = root.Content[0].Value
	if len(schema.Fields) == 0 {
		return nil, errors.New("schema defines no fields")
	}
	return &schema, nil
}

// ResolveSchema loads a schema by explicit path, then by
// schema_<name>.yaml in the working directory, then from the builtin
// set shipped with the binary.
func ResolveSchema(nameOrPath string) (*Schema, error) {
	if _, err := os.Stat(nameOrPath); err == nil {
		return LoadSchema(nameOrPath)
	}
	local := "schema_" + nameOrPath + ".yaml"
	if _, err := os.Stat(local); err == nil {
		return LoadSchema(local)
	}
	if data, err := builtinSchemas.ReadFile("schemas/" + local); err == nil {
		return ParseSchema(data)
	}
	return nil, fmt.Errorf("schema not found: %s (no such file and no builtin %s)", nameOrPath, local)
}

// BuiltinSchemaNames lists the schemas shipped with the binary
func BuiltinSchemaNames() []string {
	entries, err := builtinSchemas.ReadDir("schemas")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		name = trimPrefixSuffix(name, "schema_", ".yaml")
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func trimPrefixSuffix(s, prefix, suffix string) string {
	if len(s) <= len(prefix)+len(suffix) {
		return ""
	}
	if s[:len(prefix)] != prefix || s[len(s)-len(suffix):] != suffix {
		return ""
	}
	return s[len(prefix) : len(s)-len(suffix)]
}
