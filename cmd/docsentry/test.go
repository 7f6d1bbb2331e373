package main

import (
	"fmt"

	"github.com/johnnynv/DocSentry/internal/example"
	"github.com/johnnynv/DocSentry/internal/runner"
	"github.com/johnnynv/DocSentry/pkg/logger"
	"github.com/johnnynv/DocSentry/pkg/utils"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test [files...]",
	Short: "Test documentation examples against a running REST stub",
	Long: `Test every example marked testable in the front matter of the given
Markdown files. Without arguments the CHANGED_FILES environment
variable supplies the file list.

Each example's request command is executed against the stub server and
the JSON response is compared structurally against the documented one.
The command exits non-zero when any example fails.`,
	RunE: runTest,
}

var (
	testSchemaPath string
	testServerURL  string
	testSkipSchema bool
)

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringVar(&testSchemaPath, "schema", "", "JSON schema file for front matter validation")
	testCmd.Flags().StringVar(&testServerURL, "server-url", "", "override the front matter server URL")
	testCmd.Flags().BoolVar(&testSkipSchema, "skip-schema", false, "skip front matter schema validation")
}

func runTest(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	out, err := newAnnotationWriter(log)
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		files = utils.ChangedFiles()
	}
	if len(files) == 0 {
		out.Warning("No files to test: pass file paths or set "+utils.ChangedFilesVar, "", 0)
		return nil
	}

	entry := log.WithFields(logger.Fields{"command": "test"})
	exec := example.NewRunner(entry)
	fileRunner := runner.NewRunner(exec, out, entry, testSchemaPath)
	if testServerURL != "" {
		fileRunner.SetServerURL(testServerURL)
	}
	fileRunner.SetSkipSchema(testSkipSchema)

	ctx := cmd.Context()
	var total runner.FileResult
	for _, path := range files {
		result := fileRunner.TestFile(ctx, path)
		total.Add(result)

		out.Info("TEST SUMMARY: " + path)
		out.Info(fmt.Sprintf("  Total tests: %d", result.Tested))
		if result.Passed > 0 {
			out.Success(fmt.Sprintf("  Passed: %d", result.Passed))
		}
		if result.Failed > 0 {
			out.Error(fmt.Sprintf("  Failed: %d", result.Failed), path, 0)
		}
	}

	if total.Failed > 0 {
		return fmt.Errorf("%d example test(s) failed", total.Failed)
	}
	if total.Tested == 0 {
		out.Warning("No tests were run", "", 0)
		return nil
	}
	out.Success("✓ All tests passed!")
	return nil
}
