package logger

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_NewLogger_WithValidConfig(t *testing.T) {
	config := Config{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}

	logger, err := NewLogger(config)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestLogger_NewLogger_WithInvalidLevel(t *testing.T) {
	config := Config{
		Level:  "loud",
		Format: "json",
		Output: "stderr",
	}

	logger, err := NewLogger(config)
	require.NoError(t, err) // falls back to info
	assert.NotNil(t, logger)
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestLogger_NewLogger_WithInvalidFormat(t *testing.T) {
	config := Config{
		Level:  "info",
		Format: "pretty",
		Output: "stderr",
	}

	logger, err := NewLogger(config)
	require.NoError(t, err) // falls back to JSON
	assert.NotNil(t, logger)
}

func TestLogger_NewLogger_WithFileOutput(t *testing.T) {
	tempFile := t.TempDir() + "/docsentry.log"
	config := Config{
		Level:  "info",
		Format: "text",
		Output: tempFile,
	}

	logger, err := NewLogger(config)
	require.NoError(t, err)

	logger.Info("file output works")

	content, err := os.ReadFile(tempFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file output works")
}

func TestLogger_GetDefaultLogger(t *testing.T) {
	logger := GetDefaultLogger()
	require.NotNil(t, logger)

	assert.Equal(t, "info", logger.GetLevel().String())
	// Diagnostics must not land on stdout by default.
	assert.Equal(t, os.Stderr, logger.Out)
}

func TestLogger_DefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "stderr", config.Output)
	assert.Greater(t, config.File.MaxSize, 0)
}

func readLogEntry(t *testing.T, path string) map[string]interface{} {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	err = json.Unmarshal([]byte(strings.TrimSpace(string(content))), &entry)
	require.NoError(t, err)
	return entry
}

func TestLogger_DomainFields(t *testing.T) {
	tempFile := t.TempDir() + "/docsentry.log"
	config := Config{
		Level:  "info",
		Format: "json",
		Output: tempFile,
	}

	logger, err := NewLogger(config)
	require.NoError(t, err)

	logger.WithComponent("runner").
		WithOperation("test_example").
		WithFile("docs/api/users.md").
		WithExample("GET user").
		Info("example passed")

	entry := readLogEntry(t, tempFile)
	assert.Equal(t, "example passed", entry["message"])
	assert.Equal(t, "runner", entry["component"])
	assert.Equal(t, "test_example", entry["operation"])
	assert.Equal(t, "docs/api/users.md", entry["file"])
	assert.Equal(t, "GET user", entry["example"])
	assert.NotNil(t, entry["timestamp"])
	assert.NotNil(t, entry["level"])
}

func TestLogger_WorkflowFields(t *testing.T) {
	tempFile := t.TempDir() + "/workflow.log"
	config := Config{
		Level:  "info",
		Format: "json",
		Output: tempFile,
	}

	logger, err := NewLogger(config)
	require.NoError(t, err)

	logger.WithRepository("octo/widgets").
		WithRun(9123456).
		WithEndpoint("/repos/octo/widgets/actions/runs").
		WithHTTPStatus(200).
		Info("runs fetched")

	entry := readLogEntry(t, tempFile)
	assert.Equal(t, "octo/widgets", entry["repository"])
	assert.Equal(t, float64(9123456), entry["run_id"])
	assert.Equal(t, "/repos/octo/widgets/actions/runs", entry["endpoint"])
	assert.Equal(t, float64(200), entry["http_status"])
}

func TestLogger_WithError(t *testing.T) {
	tempFile := t.TempDir() + "/errors.log"
	config := Config{
		Level:  "info",
		Format: "json",
		Output: tempFile,
	}

	logger, err := NewLogger(config)
	require.NoError(t, err)

	logger.WithError(errors.New("status line missing")).Error("request failed")

	entry := readLogEntry(t, tempFile)
	assert.Equal(t, "request failed", entry["message"])
	assert.Equal(t, "status line missing", entry["error"])
}

func TestLogger_EntryChaining(t *testing.T) {
	tempFile := t.TempDir() + "/chain.log"
	config := Config{
		Level:  "info",
		Format: "json",
		Output: tempFile,
	}

	logger, err := NewLogger(config)
	require.NoError(t, err)

	logger.WithComponent("workflow").
		WithFields(Fields{"page": 2, "per_page": 100}).
		WithRepository("octo/widgets").
		Info("next page")

	entry := readLogEntry(t, tempFile)
	assert.Equal(t, "workflow", entry["component"])
	assert.Equal(t, float64(2), entry["page"])
	assert.Equal(t, float64(100), entry["per_page"])
	assert.Equal(t, "octo/widgets", entry["repository"])
}

func TestLogger_LogLevels_Threshold(t *testing.T) {
	tempFile := t.TempDir() + "/threshold.log"
	config := Config{
		Level:  "warn",
		Format: "text",
		Output: tempFile,
	}

	logger, err := NewLogger(config)
	require.NoError(t, err)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	content, err := os.ReadFile(tempFile)
	require.NoError(t, err)
	output := string(content)

	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestLogger_TextFormat_Readable(t *testing.T) {
	tempFile := t.TempDir() + "/text.log"
	config := Config{
		Level:  "info",
		Format: "text",
		Output: tempFile,
	}

	logger, err := NewLogger(config)
	require.NoError(t, err)

	logger.Info("simple text message")

	content, err := os.ReadFile(tempFile)
	require.NoError(t, err)
	output := string(content)

	assert.Contains(t, output, "simple text message")
	assert.Contains(t, output, "level=info")
	assert.Contains(t, output, "time=")
}

func TestLogger_ConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "valid config",
			config: Config{Level: "info", Format: "json", Output: "stderr"},
		},
		{
			name:   "empty level",
			config: Config{Level: "", Format: "json", Output: "stderr"},
		},
		{
			name:   "empty format",
			config: Config{Level: "info", Format: "", Output: "stderr"},
		},
		{
			name:   "empty output",
			config: Config{Level: "info", Format: "json", Output: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.config)
			assert.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}
