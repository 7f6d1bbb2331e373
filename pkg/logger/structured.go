package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields type, used to pass to `WithFields`.
type Fields map[string]interface{}

// Entry wraps logrus.Entry to provide consistent interface
type Entry struct {
	*logrus.Entry
}

// WithFields adds multiple fields to log entries
func (l *Logger) WithFields(fields Fields) *Entry {
	logrusFields := make(logrus.Fields)
	for k, v := range fields {
		logrusFields[k] = v
	}
	return &Entry{l.Logger.WithFields(logrusFields)}
}

// WithField adds a single field to log entries
func (l *Logger) WithField(key string, value interface{}) *Entry {
	return &Entry{l.Logger.WithField(key, value)}
}

// WithComponent adds component field to log entries
func (l *Logger) WithComponent(component string) *Entry {
	return l.WithField("component", component)
}

// WithOperation adds operation field to log entries
func (l *Logger) WithOperation(operation string) *Entry {
	return l.WithField("operation", operation)
}

// WithFile adds file field to log entries
func (l *Logger) WithFile(file string) *Entry {
	return l.WithField("file", file)
}

// WithExample adds example field to log entries
func (l *Logger) WithExample(example string) *Entry {
	return l.WithField("example", example)
}

// WithRepository adds repository field to log entries
func (l *Logger) WithRepository(repo string) *Entry {
	return l.WithField("repository", repo)
}

// WithRun adds run_id field to log entries
func (l *Logger) WithRun(runID int64) *Entry {
	return l.WithField("run_id", runID)
}

// WithJob adds job_id field to log entries
func (l *Logger) WithJob(jobID int64) *Entry {
	return l.WithField("job_id", jobID)
}

// WithEndpoint adds endpoint field to log entries
func (l *Logger) WithEndpoint(endpoint string) *Entry {
	return l.WithField("endpoint", endpoint)
}

// WithError adds error field to log entries
func (l *Logger) WithError(err error) *Entry {
	return l.WithField("error", err.Error())
}

// WithDuration adds duration field to log entries (for performance logging)
func (l *Logger) WithDuration(duration string) *Entry {
	return l.WithField("duration", duration)
}

// WithHTTPStatus adds http_status field to log entries
func (l *Logger) WithHTTPStatus(status int) *Entry {
	return l.WithField("http_status", status)
}

// WithURL adds url field to log entries
func (l *Logger) WithURL(url string) *Entry {
	return l.WithField("url", url)
}

// Entry methods for chaining additional fields
func (e *Entry) WithField(key string, value interface{}) *Entry {
	return &Entry{e.Entry.WithField(key, value)}
}

func (e *Entry) WithFields(fields Fields) *Entry {
	logrusFields := make(logrus.Fields)
	for k, v := range fields {
		logrusFields[k] = v
	}
	return &Entry{e.Entry.WithFields(logrusFields)}
}

func (e *Entry) WithComponent(component string) *Entry {
	return e.WithField("component", component)
}

func (e *Entry) WithOperation(operation string) *Entry {
	return e.WithField("operation", operation)
}

func (e *Entry) WithFile(file string) *Entry {
	return e.WithField("file", file)
}

func (e *Entry) WithExample(example string) *Entry {
	return e.WithField("example", example)
}

func (e *Entry) WithRepository(repo string) *Entry {
	return e.WithField("repository", repo)
}

func (e *Entry) WithRun(runID int64) *Entry {
	return e.WithField("run_id", runID)
}

func (e *Entry) WithJob(jobID int64) *Entry {
	return e.WithField("job_id", jobID)
}

func (e *Entry) WithEndpoint(endpoint string) *Entry {
	return e.WithField("endpoint", endpoint)
}

func (e *Entry) WithHTTPStatus(status int) *Entry {
	return e.WithField("http_status", status)
}

func (e *Entry) WithError(err error) *Entry {
	return e.WithField("error", err.Error())
}

// createFileWriter creates a file writer with rotation support
func createFileWriter(config Config) (io.Writer, error) {
	if !strings.HasPrefix(config.Output, "/") && config.Output != "stdout" && config.Output != "stderr" {
		// Relative path, make it absolute
		absPath, err := filepath.Abs(config.Output)
		if err != nil {
			return nil, err
		}
		config.Output = absPath
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(config.Output)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &lumberjack.Logger{
		Filename:   config.Output,
		MaxSize:    config.File.MaxSize,
		MaxBackups: config.File.MaxBackups,
		MaxAge:     config.File.MaxAge,
		Compress:   config.File.Compress,
	}, nil
}

// getWriter returns the appropriate writer based on configuration
func getWriter(config Config) (io.Writer, error) {
	switch config.Output {
	case "stderr", "":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	default:
		// File path
		return createFileWriter(config)
	}
}
