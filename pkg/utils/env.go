package utils

import (
	"os"
	"strings"
)

// ChangedFilesVar is the environment variable CI populates with the
// comma-separated list of files touched by a pull request.
const ChangedFilesVar = "CHANGED_FILES"

// GetEnvWithDefault returns environment variable value or default if not set
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ValidateRequiredEnvVars checks if required environment variables are set
func ValidateRequiredEnvVars(required []string) []string {
	var missing []string

	for _, varName := range required {
		if os.Getenv(varName) == "" {
			missing = append(missing, varName)
		}
	}

	return missing
}

// SplitList splits a comma-separated value into trimmed, non-empty items
func SplitList(value string) []string {
	var items []string

	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}

// ChangedFiles returns the CI-supplied changed file list, empty when unset
func ChangedFiles() []string {
	return SplitList(os.Getenv(ChangedFilesVar))
}
