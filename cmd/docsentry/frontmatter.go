package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/johnnynv/DocSentry/internal/frontmatter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var frontmatterCmd = &cobra.Command{
	Use:   "frontmatter <file>",
	Short: "Test front matter parsing on a Markdown file",
	Long: `Parse a Markdown file's front matter and report the result. With
--schema the parsed metadata is also validated against a JSON schema.

The report is the primary output of this command and goes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runFrontmatter,
}

var (
	frontmatterVerbose bool
	frontmatterSchema  string
)

func init() {
	rootCmd.AddCommand(frontmatterCmd)

	frontmatterCmd.Flags().BoolVarP(&frontmatterVerbose, "verbose", "v", false, "show full front matter content")
	frontmatterCmd.Flags().StringVar(&frontmatterSchema, "schema", "", "JSON schema file to validate against")
}

func runFrontmatter(cmd *cobra.Command, args []string) error {
	path := args[0]

	fmt.Println("Testing: " + path)
	fmt.Println(strings.Repeat("=", 60))

	content, err := readMarkdownFile(path)
	if err != nil {
		fmt.Println("✗ ERROR: Could not read file")
		return err
	}

	meta, perr := frontmatter.Parse(content)
	if perr != nil {
		fmt.Println("✗ FRONT MATTER PARSING FAILED")
		fmt.Println()
		if perr.Line > 0 {
			fmt.Printf("Error on line %d:\n", perr.Line)
		}
		fmt.Println(perr.Message)
		return fmt.Errorf("front matter parsing failed")
	}

	fmt.Println("✓ FRONT MATTER PARSED SUCCESSFULLY")
	fmt.Println()

	if frontmatterVerbose {
		fmt.Println("Full front matter content:")
		fmt.Println(strings.Repeat("-", 60))
		dump, err := yaml.Marshal(map[string]interface{}(meta))
		if err != nil {
			return fmt.Errorf("failed to render front matter: %w", err)
		}
		fmt.Println(string(dump))
	} else {
		fmt.Printf("Found %d field(s):\n", len(meta))
		for _, key := range sortedKeys(meta) {
			fmt.Printf("  - %s: %s\n", key, displayValue(meta[key]))
		}
		fmt.Println()
		fmt.Println("Use --verbose to see full content")
	}

	if frontmatterSchema == "" {
		return nil
	}
	return reportSchemaValidation(meta, frontmatterSchema)
}

func reportSchemaValidation(meta frontmatter.Metadata, schemaPath string) error {
	fmt.Println()
	report := frontmatter.ValidateSchema(meta, schemaPath)

	if report.Skipped {
		fmt.Println("Schema validation skipped: " + report.SkipReason)
		return nil
	}

	if len(report.Errors) == 0 && len(report.Warnings) == 0 {
		fmt.Println("✓ SCHEMA VALIDATION PASSED")
		return nil
	}

	if len(report.Errors) > 0 {
		fmt.Println("✗ SCHEMA VALIDATION FAILED")
		for _, msg := range report.Errors {
			fmt.Println("  - " + msg)
		}
	}
	if len(report.Warnings) > 0 {
		fmt.Println("Schema validation warnings:")
		for _, msg := range report.Warnings {
			fmt.Println("  - " + msg)
		}
	}

	if !report.Valid() {
		return fmt.Errorf("schema validation failed")
	}
	return nil
}

func sortedKeys(meta frontmatter.Metadata) []string {
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// displayValue renders one front matter value for the field listing.
// Long strings are truncated; containers show only their kind.
func displayValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		runes := []rune(v)
		if len(runes) > 50 {
			return string(runes[:47]) + "..."
		}
		return v
	case []interface{}:
		return "<list>"
	case map[string]interface{}:
		return "<dict>"
	default:
		return fmt.Sprintf("%v", v)
	}
}
