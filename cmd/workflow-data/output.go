package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnnynv/DocSentry/internal/csvfmt"
	"github.com/johnnynv/DocSentry/internal/workflow"
)

var (
	outputCompact bool
	outputFields  string
	outputFormat  string
	outputSchema  string
	outputPath    string
	outputAppend  bool
)

// addOutputFlags registers the output flags shared by every data
// command.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&outputCompact, "compact", false, "Output compact JSON (no pretty-printing)")
	cmd.Flags().StringVar(&outputFields, "fields", "", "Comma-separated list of fields to return (e.g. \"id,name,conclusion\")")
	cmd.Flags().StringVar(&outputFormat, "format", "json", "Output format (json, csv)")
	cmd.Flags().StringVar(&outputSchema, "schema", "", "Schema name or file for CSV output (required when --format=csv)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&outputAppend, "append", false, "Append to output file instead of overwriting (CSV only)")
}

// outputData renders the result according to the output flags. Field
// filtering applies before formatting so CSV schemas and JSON readers
// see the same shape.
func outputData(data interface{}) error {
	if data == nil {
		return fmt.Errorf("no data to output")
	}

	if fields := workflow.ParseFields(outputFields); len(fields) > 0 {
		data = workflow.FilterFields(data, fields)
	}

	switch outputFormat {
	case "csv":
		if outputSchema == "" {
			return fmt.Errorf("--schema required for CSV output")
		}
		schema, err := csvfmt.ResolveSchema(outputSchema)
		if err != nil {
			return err
		}
		content, err := csvfmt.Format(data, schema)
		if err != nil {
			return err
		}
		if outputPath != "" {
			if err := csvfmt.Save(content, outputPath, outputAppend); err != nil {
				return err
			}
			fmt.Printf("CSV written to %s\n", outputPath)
			return nil
		}
		fmt.Print(content)
		return nil
	case "json":
		// JSON always goes to stdout; --output only applies to CSV.
		var encoded []byte
		var err error
		if outputCompact {
			encoded, err = json.Marshal(data)
		} else {
			encoded, err = json.MarshalIndent(data, "", "  ")
		}
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		fmt.Println(string(encoded))
		return nil
	default:
		return fmt.Errorf("invalid format %q (expected json or csv)", outputFormat)
	}
}
