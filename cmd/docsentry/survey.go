package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/johnnynv/DocSentry/internal/markdown"
	"github.com/spf13/cobra"
)

var surveyCmd = &cobra.Command{
	Use:   "survey <files...>",
	Short: "Count words and Markdown notation patterns in files",
	Long: `Analyze Markdown files and report per file: prose word count (code,
HTML and notation excluded), the number of notation constructs, and
the set of notation types used. Multiple files get a combined summary.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSurvey,
}

func init() {
	rootCmd.AddCommand(surveyCmd)
}

func runSurvey(cmd *cobra.Command, args []string) error {
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
		out.Info(fmt.Sprintf("Analyzing %d markdown file(s)...", totalFiles))
	}

	var failed []string
	totalWords := 0
	totalNotations := 0
	allUnique := make(map[string]struct{})

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

		survey := markdown.Survey(content)
		message := fmt.Sprintf("%s: %d words, %d markdown_symbols, %d unique_codes: %s",
			filepath.Base(path), survey.Words, survey.NotationCount,
			len(survey.UniqueNotations), strings.Join(survey.UniqueNotations, ", "))

		if annotationsEnabled() {
			out.Notice(message, path, 0)
		} else {
			out.Info(message)
		}

		totalWords += survey.Words
		totalNotations += survey.NotationCount
		for _, name := range survey.UniqueNotations {
			allUnique[name] = struct{}{}
		}
	}

	if totalFiles > 1 {
		processed := totalFiles - len(failed)
		unique := make([]string, 0, len(allUnique))
		for name := range allUnique {
			unique = append(unique, name)
		}
		sort.Strings(unique)

		out.Info(fmt.Sprintf("Summary: %d files, %d total words, %d total markdown_symbols, %d unique_codes across all files: %s",
			processed, totalWords, totalNotations, len(unique), strings.Join(unique, ", ")))

		if globalAction == "all" {
			out.Notice(fmt.Sprintf("Analyzed %d files: %d words, %d symbols",
				processed, totalWords, totalNotations), "", 0)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to process %d file(s)", len(failed))
	}
	return nil
}
