package main

import (
	"fmt"

	"github.com/johnnynv/DocSentry/internal/runner"
	"github.com/spf13/cobra"
)

var dbpathCmd = &cobra.Command{
	Use:   "dbpath <file>",
	Short: "Print the seed database path from a file's front matter",
	Long: `Extract the test.local_database path from a Markdown file's front
matter and print it to stdout, with any leading slash stripped so CI
can join it onto a checkout directory. Exits non-zero when the file
has no usable test configuration.`,
	Args: cobra.ExactArgs(1),
	RunE: runDBPath,
}

func init() {
	rootCmd.AddCommand(dbpathCmd)
}

func runDBPath(cmd *cobra.Command, args []string) error {
	path, err := runner.DatabasePath(args[0])
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
