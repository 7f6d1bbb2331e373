package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

var getRunCmd = &cobra.Command{
	Use:   "get-run <owner> <repo> <run_id>",
	Short: "Get workflow run details",
	Long: `Get the full record for a single workflow run.

Examples:
  workflow-data get-run acme widgets 123456789
  workflow-data get-run acme widgets 123456789 --fields id,status,conclusion`,
	Args: cobra.ExactArgs(3),
	RunE: runGetRun,
}

func init() {
	addOutputFlags(getRunCmd)
	rootCmd.AddCommand(getRunCmd)
}

// parseID converts a numeric command line argument
func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: expected a number", kind, raw)
	}
	return id, nil
}

func runGetRun(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	runID, err := parseID("run ID", args[2])
	if err != nil {
		return err
	}

	entry := log.WithFields(logger.Fields{"command": "get-run"})
	ctx := context.Background()

	service, cleanup, err := newWorkflowService(ctx, entry, false)
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := service.GetRun(ctx, args[0], args[1], runID)
	if err != nil {
		return err
	}
	return outputData(run)
}
