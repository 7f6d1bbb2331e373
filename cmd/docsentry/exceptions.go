package main

import (
	"fmt"
	"path/filepath"

	"github.com/johnnynv/DocSentry/internal/annotate"
	"github.com/johnnynv/DocSentry/internal/markdown"
	"github.com/spf13/cobra"
)

var exceptionsCmd = &cobra.Command{
	Use:   "exceptions <files...>",
	Short: "List Vale and markdownlint exception tags in files",
	Long: `Scan Markdown files for linter suppression comments:

  <!-- vale Style.Rule = NO -->
  <!-- vale off -->
  <!-- markdownlint-disable MD013 -->
  <!-- markdownlint-disable -->

Each exception is reported with its line number; with --action every
exception becomes a warning annotation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExceptions,
}

func init() {
	rootCmd.AddCommand(exceptionsCmd)
}

func runExceptions(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	out, err := newAnnotationWriter(log)
	if err != nil {
		return err
	}

	totalFiles := len(args)
	if totalFiles > 1 {
		out.Info(fmt.Sprintf("Scanning %d file(s) for linter exceptions...", totalFiles))
	}

	var failed []string
	totalVale := 0
	totalMarkdownLint := 0

	for idx, path := range args {
		if totalFiles > 1 {
			out.Info(fmt.Sprintf("[%d/%d] Processing %s", idx+1, totalFiles, filepath.Base(path)))
		}

		content, err := readMarkdownFile(path)
		if err != nil {
			failed = append(failed, path)
			out.Error("Failed to read "+path, path, 0)
			continue
		}

		report := markdown.ScanExceptions(content)
		if annotationsEnabled() {
			reportExceptionsAnnotated(out, path, report)
		} else {
			reportExceptions(out, path, report)
		}

		totalVale += len(report.Vale)
		totalMarkdownLint += len(report.MarkdownLint)
	}

	if totalFiles > 1 {
		out.Info(fmt.Sprintf("Summary: %d Vale, %d markdownlint exceptions across %d files",
			totalVale, totalMarkdownLint, totalFiles))

		if globalAction == "all" {
			out.Notice(fmt.Sprintf("Scanned %d files: %d Vale, %d markdownlint exceptions total",
				totalFiles, totalVale, totalMarkdownLint), "", 0)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to process %d file(s)", len(failed))
	}
	return nil
}

func reportExceptions(out *annotate.Writer, path string, report markdown.ExceptionReport) {
	out.Info(fmt.Sprintf("%s: %d Vale exceptions, %d markdownlint exceptions",
		filepath.Base(path), len(report.Vale), len(report.MarkdownLint)))

	if report.Total() == 0 {
		out.Info("No Vale or markdownlint exceptions found.")
		return
	}

	if len(report.Vale) > 0 {
		out.Info("Vale exceptions:")
		for _, exc := range report.Vale {
			out.Info(fmt.Sprintf("  Line %d: %s", exc.Line, exc.Rule))
		}
	} else {
		out.Info("No Vale exceptions found.")
	}

	if len(report.MarkdownLint) > 0 {
		out.Info("Markdownlint exceptions:")
		for _, exc := range report.MarkdownLint {
			out.Info(fmt.Sprintf("  Line %d: %s", exc.Line, exc.Rule))
		}
	} else {
		out.Info("No markdownlint exceptions found.")
	}
}

func reportExceptionsAnnotated(out *annotate.Writer, path string, report markdown.ExceptionReport) {
	out.Info(fmt.Sprintf("%s: %d Vale exceptions, %d markdownlint exceptions",
		filepath.Base(path), len(report.Vale), len(report.MarkdownLint)))

	if report.Total() == 0 {
		out.Notice("No Vale or markdownlint exceptions found.", path, 0)
		return
	}

	if len(report.Vale) > 0 {
		for _, exc := range report.Vale {
			out.Warning("Vale exception: "+exc.Rule, path, exc.Line)
		}
	} else {
		out.Notice("No Vale exceptions found.", path, 0)
	}

	if len(report.MarkdownLint) > 0 {
		for _, exc := range report.MarkdownLint {
			out.Warning("Markdownlint exception: "+exc.Rule, path, exc.Line)
		}
	} else {
		out.Notice("No markdownlint exceptions found.", path, 0)
	}

	out.Notice(fmt.Sprintf("Found %d Vale and %d markdownlint exceptions",
		len(report.Vale), len(report.MarkdownLint)), path, 0)
}
