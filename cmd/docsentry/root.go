package main

import (
	"fmt"
	"os"

	"github.com/johnnynv/DocSentry/internal/annotate"
	"github.com/johnnynv/DocSentry/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	globalLogLevel  string
	globalLogFormat string
	globalLogFile   string
	globalAction    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docsentry",
	Short: "DocSentry - Documentation CI Toolkit",
	Long: `DocSentry tests the HTTP examples embedded in API documentation against
a running REST stub and runs the small checks a documentation pipeline
needs on every change: front matter parsing, test-config grouping,
prose surveys, linter exception listings and filename validation.

Diagnostics go to stderr; data output (JSON, shell variables, paths)
and workflow annotations go to stdout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "log format (json, text)")
	rootCmd.PersistentFlags().StringVar(&globalLogFile, "log-file", "", "log file path (default: stderr)")
	rootCmd.PersistentFlags().StringVar(&globalAction, "action", "", "emit workflow annotations at level (all, warning, error)")
	// Bare --action selects the warning threshold
	rootCmd.PersistentFlags().Lookup("action").NoOptDefVal = "warning"

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in ENV variables if set.
func initConfig() {
	// Read in environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("DS") // DS_LOG_LEVEL, DS_LOG_FORMAT, etc.
}

// newLogger builds the shared diagnostics logger from global flags and
// environment. Output stays on stderr unless --log-file redirects it.
func newLogger() (*logger.Logger, error) {
	config := logger.DefaultConfig()
	if level := viper.GetString("log_level"); level != "" {
		config.Level = level
	}
	if format := viper.GetString("log_format"); format != "" {
		config.Format = format
	}
	if globalLogFile != "" {
		config.Output = globalLogFile
	}
	return logger.NewLogger(config)
}

// newAnnotationWriter wires the diagnostics mirror. Annotations are only
// emitted when --action was given.
func newAnnotationWriter(log *logger.Logger) (*annotate.Writer, error) {
	if globalAction == "" {
		return annotate.NewWriter(log, false, annotate.ThresholdWarning), nil
	}
	threshold, err := annotate.ParseThreshold(globalAction)
	if err != nil {
		return nil, err
	}
	return annotate.NewWriter(log, true, threshold), nil
}

// annotationsEnabled reports whether --action was given
func annotationsEnabled() bool {
	return globalAction != ""
}

func readMarkdownFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(raw), nil
}
