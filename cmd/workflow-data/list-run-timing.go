package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

var listRunTimingCmd = &cobra.Command{
	Use:   "list-run-timing <owner> <repo>",
	Short: "Get timing for multiple workflow runs",
	Long: `Report run and per job durations for every run matching the
filters. Runs whose details cannot be fetched are skipped with a
warning instead of failing the report.

With --cache, completed runs are stored locally so repeated reports
do not refetch them.

Examples:
  workflow-data list-run-timing acme widgets --days 7
  workflow-data list-run-timing acme widgets --limit 25 --format csv --schema timing --output timing.csv
  workflow-data --cache list-run-timing acme widgets --workflow ci.yml`,
	Args: cobra.ExactArgs(2),
	RunE: runListRunTiming,
}

func init() {
	addListFlags(listRunTimingCmd)
	addOutputFlags(listRunTimingCmd)
	rootCmd.AddCommand(listRunTimingCmd)
}

func runListRunTiming(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	if err := validateStatus(listStatus); err != nil {
		return err
	}

	entry := log.WithFields(logger.Fields{"command": "list-run-timing"})
	ctx := context.Background()

	service, cleanup, err := newWorkflowService(ctx, entry, true)
	if err != nil {
		return err
	}
	defer cleanup()

	timings, err := service.ListRunTiming(ctx, args[0], args[1], listOptions())
	if err != nil {
		return err
	}
	return outputData(timings)
}
