package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

var listJobsCmd = &cobra.Command{
	Use:   "list-jobs <owner> <repo> <run_id>",
	Short: "List jobs for a workflow run",
	Long: `List the jobs of a single workflow run.

Examples:
  workflow-data list-jobs acme widgets 123456789
  workflow-data list-jobs acme widgets 123456789 --fields name,conclusion`,
	Args: cobra.ExactArgs(3),
	RunE: runListJobs,
}

func init() {
	addOutputFlags(listJobsCmd)
	rootCmd.AddCommand(listJobsCmd)
}

func runListJobs(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	runID, err := parseID("run ID", args[2])
	if err != nil {
		return err
	}

	entry := log.WithFields(logger.Fields{"command": "list-jobs"})
	ctx := context.Background()

	service, cleanup, err := newWorkflowService(ctx, entry, false)
	if err != nil {
		return err
	}
	defer cleanup()

	jobs, err := service.ListJobs(ctx, args[0], args[1], runID)
	if err != nil {
		return err
	}
	return outputData(jobs)
}
