// Package annotate emits GitHub Actions workflow annotations for
// documentation checks. Annotation lines go to the primary output stream
// where the Actions runner parses them; every message is mirrored to the
// diagnostics logger so local runs read the same way.
package annotate

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

// Level classifies a diagnostic message.
type Level int

const (
	LevelInfo Level = iota
	LevelNotice
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the lowercase level name
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelNotice:
		return "notice"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// severity orders the levels that may become annotations.
// Info and success never annotate.
func (l Level) severity() (int, bool) {
	switch l {
	case LevelNotice:
		return 0, true
	case LevelWarning:
		return 1, true
	case LevelError:
		return 2, true
	default:
		return 0, false
	}
}

// Threshold is the minimum severity that produces an annotation
type Threshold int

const (
	ThresholdAll     Threshold = 0 // notice, warning, error
	ThresholdWarning Threshold = 1 // warning, error
	ThresholdError   Threshold = 2 // error only
)

// ParseThreshold parses an --action flag value. Unknown values fall back
// to the warning threshold alongside the returned error.
func ParseThreshold(s string) (Threshold, error) {
	switch strings.ToLower(s) {
	case "all":
		return ThresholdAll, nil
	case "warning":
		return ThresholdWarning, nil
	case "error":
		return ThresholdError, nil
	default:
		return ThresholdWarning, fmt.Errorf("invalid annotation level %q (expected all, warning or error)", s)
	}
}

// Writer mirrors diagnostics to the logger and, when enabled, emits
// workflow annotation commands that meet the configured threshold.
type Writer struct {
	out       io.Writer
	log       *logger.Logger
	enabled   bool
	threshold Threshold
}

// NewWriter creates an annotation writer. Annotations are written to
// stdout; pass enabled=false to keep console-only behavior.
func NewWriter(log *logger.Logger, enabled bool, threshold Threshold) *Writer {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &Writer{
		out:       os.Stdout,
		log:       log,
		enabled:   enabled,
		threshold: threshold,
	}
}

// SetOutput redirects annotation command output
func (w *Writer) SetOutput(out io.Writer) {
	w.out = out
}

// Info logs an informational message, never annotated
func (w *Writer) Info(message string) {
	w.Emit(LevelInfo, message, "", 0)
}

// Success logs a success message, never annotated
func (w *Writer) Success(message string) {
	w.Emit(LevelSuccess, message, "", 0)
}

// Notice emits a notice-level message
func (w *Writer) Notice(message, file string, line int) {
	w.Emit(LevelNotice, message, file, line)
}

// Warning emits a warning-level message
func (w *Writer) Warning(message, file string, line int) {
	w.Emit(LevelWarning, message, file, line)
}

// Error emits an error-level message
func (w *Writer) Error(message, file string, line int) {
	w.Emit(LevelError, message, file, line)
}

// Emit logs the message and writes the annotation command when the level
// meets the threshold. file and line are optional (empty / zero).
func (w *Writer) Emit(level Level, message, file string, line int) {
	entry := w.log.WithComponent("annotate")
	if file != "" {
		entry = entry.WithFile(file)
	}
	switch level {
	case LevelWarning:
		entry.Warn(message)
	case LevelError:
		entry.Error(message)
	default:
		entry.Info(message)
	}

	if !w.enabled {
		return
	}
	severity, annotates := level.severity()
	if !annotates || severity < int(w.threshold) {
		return
	}

	var properties []string
	if file != "" {
		properties = append(properties, "file="+escapeProperty(file))
	}
	if line > 0 {
		properties = append(properties, fmt.Sprintf("line=%d", line))
	}

	command := "::" + level.String()
	if len(properties) > 0 {
		command += " " + strings.Join(properties, ",")
	}
	fmt.Fprintf(w.out, "%s::%s\n", command, escapeData(message))
}

// The workflow command protocol is line oriented, so message data and
// property values must not carry raw newlines or separators.

func escapeData(s string) string {
	r := strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	return r.Replace(s)
}

func escapeProperty(s string) string {
	r := strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
	return r.Replace(s)
}
