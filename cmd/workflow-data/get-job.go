package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

var getJobCmd = &cobra.Command{
	Use:   "get-job <owner> <repo> <job_id>",
	Short: "Get job details",
	Long: `Get the full record for a single job, including its steps.

Examples:
  workflow-data get-job acme widgets 987654321
  workflow-data get-job acme widgets 987654321 --fields name,steps`,
	Args: cobra.ExactArgs(3),
	RunE: runGetJob,
}

func init() {
	addOutputFlags(getJobCmd)
	rootCmd.AddCommand(getJobCmd)
}

func runGetJob(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	jobID, err := parseID("job ID", args[2])
	if err != nil {
		return err
	}

	entry := log.WithFields(logger.Fields{"command": "get-job"})
	ctx := context.Background()

	service, cleanup, err := newWorkflowService(ctx, entry, false)
	if err != nil {
		return err
	}
	defer cleanup()

	job, err := service.GetJob(ctx, args[0], args[1], jobID)
	if err != nil {
		return err
	}
	return outputData(job)
}
