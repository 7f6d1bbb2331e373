package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

var getRunTimingCmd = &cobra.Command{
	Use:   "get-run-timing <owner> <repo> <run_id>",
	Short: "Get timing for a single workflow run",
	Long: `Report the run duration, per job durations and summed job time
for one workflow run.

Examples:
  workflow-data get-run-timing acme widgets 123456789
  workflow-data --cache get-run-timing acme widgets 123456789 --format csv --schema timing`,
	Args: cobra.ExactArgs(3),
	RunE: runGetRunTiming,
}

func init() {
	addOutputFlags(getRunTimingCmd)
	rootCmd.AddCommand(getRunTimingCmd)
}

func runGetRunTiming(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	runID, err := parseID("run ID", args[2])
	if err != nil {
		return err
	}

	entry := log.WithFields(logger.Fields{"command": "get-run-timing"})
	ctx := context.Background()

	service, cleanup, err := newWorkflowService(ctx, entry, true)
	if err != nil {
		return err
	}
	defer cleanup()

	timing, err := service.RunTiming(ctx, args[0], args[1], runID)
	if err != nil {
		return err
	}
	return outputData(timing)
}
