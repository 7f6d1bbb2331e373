package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

var (
	globalLogLevel  string
	globalLogFormat string
	globalLogFile   string
	globalTransport string
	globalCachePath string
)

var rootCmd = &cobra.Command{
	Use:   "workflow-data",
	Short: "workflow-data - GitHub Actions workflow reporting",
	Long: `workflow-data fetches GitHub Actions workflow runs, jobs, and timing
data and reports them as JSON or CSV.

Commands talk to the GitHub API through the gh CLI when it is available
and fall back to direct HTTP requests otherwise. Timing commands keep a
local cache of completed runs so repeated reports do not refetch.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&globalLogFile, "log-file", "", "Log file path (default: stderr)")
	rootCmd.PersistentFlags().StringVar(&globalTransport, "transport", "auto", "GitHub transport (auto, gh, http)")
	rootCmd.PersistentFlags().StringVar(&globalCachePath, "cache", "", "Run cache database path")
	// Bare --cache selects the default location.
	rootCmd.PersistentFlags().Lookup("cache").NoOptDefVal = defaultCachePath()

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("transport", rootCmd.PersistentFlags().Lookup("transport"))
}

func initConfig() {
	viper.AutomaticEnv()
	// WFD_LOG_LEVEL, WFD_TRANSPORT, etc.
	viper.SetEnvPrefix("WFD")
}

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
