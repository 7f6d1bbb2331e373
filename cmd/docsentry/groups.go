package main

import (
	"fmt"
	"os"

	"github.com/johnnynv/DocSentry/internal/runner"
	"github.com/johnnynv/DocSentry/pkg/logger"
	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups <files...>",
	Short: "Group documentation files by shared test configuration",
	Long: `Group Markdown files by their test configuration (fixture apps, server
URL, seed database) so CI can reset the backing server once per group.
Files without a usable configuration are skipped and reported on
stderr; the group data goes to stdout.

Shell output is meant for eval:
  eval "$(docsentry groups --output shell docs/*.md)"
  echo $GROUP_1_FILES`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGroups,
}

var groupsOutput string

func init() {
	rootCmd.AddCommand(groupsCmd)

	groupsCmd.Flags().StringVar(&groupsOutput, "output", "json", "output format (json, shell)")
}

func runGroups(cmd *cobra.Command, args []string) error {
	if groupsOutput != "json" && groupsOutput != "shell" {
		return fmt.Errorf("invalid output format %q (expected json or shell)", groupsOutput)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	entry := log.WithFields(logger.Fields{"command": "groups"})

	groups, skipped := runner.GroupConfigs(args, entry)
	if summary := runner.SkipSummary(groups, skipped); summary != "" {
		fmt.Fprint(os.Stderr, summary)
	}

	switch groupsOutput {
	case "json":
		doc, err := runner.FormatGroupsJSON(groups)
		if err != nil {
			return err
		}
		fmt.Println(doc)
	case "shell":
		fmt.Print(runner.FormatGroupsShell(groups))
	}
	return nil
}
