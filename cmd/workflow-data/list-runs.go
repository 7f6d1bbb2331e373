package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnnynv/DocSentry/internal/workflow"
	"github.com/johnnynv/DocSentry/pkg/logger"
)

var (
	listWorkflow string
	listDays     int
	listLimit    int
	listBranch   string
	listStatus   string
)

var listRunsCmd = &cobra.Command{
	Use:   "list-runs <owner> <repo>",
	Short: "List workflow runs",
	Long: `List workflow runs for a repository, most recent first.

With no --days or --limit the ten most recent runs are returned. A
--days window alone returns every run inside the window; --limit 0
removes the cap entirely.

Examples:
  workflow-data list-runs acme widgets --days 7
  workflow-data list-runs acme widgets --limit 50 --branch main
  workflow-data list-runs acme widgets --workflow ci.yml --status completed`,
	Args: cobra.ExactArgs(2),
	RunE: runListRuns,
}

func init() {
	addListFlags(listRunsCmd)
	addOutputFlags(listRunsCmd)
	rootCmd.AddCommand(listRunsCmd)
}

// addListFlags registers the run listing filters shared by list-runs
// and list-run-timing. Days 0 means no time window and limit -1 means
// unset, so the service can tell "unlimited" apart from "default".
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&listWorkflow, "workflow", "", "Filter by workflow file name (e.g. pr-validation.yml)")
	cmd.Flags().IntVar(&listDays, "days", 0, "Days of history to retrieve (default: unlimited with limit=10)")
	cmd.Flags().IntVar(&listLimit, "limit", -1, "Maximum number of runs to return (default: 10, use 0 for unlimited)")
	cmd.Flags().StringVar(&listBranch, "branch", "", "Filter by branch name")
	cmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (completed, in_progress, queued)")
}

func listOptions() workflow.ListOptions {
	return workflow.ListOptions{
		Workflow: listWorkflow,
		Branch:   listBranch,
		Status:   listStatus,
		Days:     listDays,
		Limit:    listLimit,
	}
}

func validateStatus(status string) error {
	switch status {
	case "", "completed", "in_progress", "queued":
		return nil
	default:
		return fmt.Errorf("invalid status %q (expected completed, in_progress or queued)", status)
	}
}

func runListRuns(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	if err := validateStatus(listStatus); err != nil {
		return err
	}

	entry := log.WithFields(logger.Fields{"command": "list-runs"})
	ctx := context.Background()

	service, cleanup, err := newWorkflowService(ctx, entry, false)
	if err != nil {
		return err
	}
	defer cleanup()

	runs, err := service.ListRuns(ctx, args[0], args[1], listOptions())
	if err != nil {
		return err
	}
	return outputData(runs)
}
