package main

import (
	"fmt"

	"github.com/johnnynv/DocSentry/pkg/logger"
	"github.com/johnnynv/DocSentry/pkg/utils"
	"github.com/spf13/cobra"
)

var filenamesCmd = &cobra.Command{
	Use:   "filenames [names...]",
	Short: "Check changed filenames for unsafe characters",
	Long: `Check filenames for whitespace and shell metacharacters that would
break the quoting in CI scripts. Without arguments the CHANGED_FILES
environment variable supplies the list. Exits non-zero when any name
is unsafe.`,
	RunE: runFilenames,
}

func init() {
	rootCmd.AddCommand(filenamesCmd)
}

func runFilenames(cmd *cobra.Command, args []string) error {
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
	for _, f := range files {
		out.Info("Changed file to check: " + f)
	}
	if len(files) == 0 {
		out.Info("No changed files reported")
		return nil
	}

	out.Info(fmt.Sprintf("Checking %d changed files for unsafe characters", len(files)))

	unsafe := utils.ValidateFilenames(files)
	if len(unsafe) > 0 {
		// Only the summary line becomes an annotation; the per-name
		// lines stay in the diagnostics stream.
		entry := log.WithFields(logger.Fields{"command": "filenames"})
		entry.Error("Unsafe filenames detected:")
		for _, name := range unsafe {
			entry.Error("  " + name)
		}
		out.Error(fmt.Sprintf("Found %d unsafe filenames in changed-files list", len(unsafe)), "", 0)
		return fmt.Errorf("%d unsafe filename(s)", len(unsafe))
	}

	out.Success("No unsafe filenames found")
	if globalAction == "all" {
		out.Notice("All filenames passed validation", "", 0)
	}
	return nil
}
