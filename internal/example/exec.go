package example

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

// requestTimeout bounds one documented request end to end
const requestTimeout = 10 * time.Second

var statusLinePattern = regexp.MustCompile(`HTTP/[\d.]+\s+(\d{3})`)

// ExecErrorKind classifies request execution failures
type ExecErrorKind string

const (
	ExecTimeout     ExecErrorKind = "timeout"
	ExecStartFailed ExecErrorKind = "start-failed"
	ExecExitStatus  ExecErrorKind = "exit-status"
	ExecMalformed   ExecErrorKind = "malformed-response"
	ExecInvalidJSON ExecErrorKind = "invalid-json-body"
)

// ExecError describes why a request produced no comparable response
type ExecError struct {
	Kind    ExecErrorKind
	Message string
	Err     error
}

func (e *ExecError) Error() string {
	return e.Message
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Response is the parsed result of one executed request. Headers keeps
// the raw header section; Body is everything after the first blank line.
type Response struct {
	Status  int
	Headers string
	Body    string
}

// DecodeJSON parses the response body. Failure is an ExecError of kind
// invalid-json-body.
func (r *Response) DecodeJSON() (interface{}, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(r.Body), &value); err != nil {
		return nil, &ExecError{Kind: ExecInvalidJSON, Message: "Response is not valid JSON", Err: err}
	}
	return value, nil
}

// Runner executes documented requests through a shell. Commands run
// exactly once; there are no retries.
type Runner struct {
	timeout time.Duration
	logger  *logger.Entry
}

// NewRunner creates a runner logging under the given parent
func NewRunner(parentLogger *logger.Entry) *Runner {
	return &Runner{
		timeout: requestTimeout,
		logger: parentLogger.WithFields(logger.Fields{
			"component": "example",
		}),
	}
}

// Execute runs the command under bash -c and parses the HTTP response
// from its stdout.
func (r *Runner) Execute(ctx context.Context, command string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		r.logger.WithFields(logger.Fields{
			"operation": "execute",
			"duration":  duration.String(),
		}).Warn("Request timed out")
		return nil, &ExecError{
			Kind:    ExecTimeout,
			Message: fmt.Sprintf("Command timed out after %.0f seconds", r.timeout.Seconds()),
			Err:     ctx.Err(),
		}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			message := strings.TrimSpace(stderr.String())
			if message == "" {
				message = "Command failed"
			}
			r.logger.WithError(err).WithFields(logger.Fields{
				"operation": "execute",
				"exit_code": exitErr.ExitCode(),
			}).Warn("Request command exited nonzero")
			return nil, &ExecError{Kind: ExecExitStatus, Message: message, Err: err}
		}
		r.logger.WithError(err).WithFields(logger.Fields{
			"operation": "execute",
		}).Error("Request command could not be started")
		return nil, &ExecError{Kind: ExecStartFailed, Message: err.Error(), Err: err}
	}

	r.logger.WithFields(logger.Fields{
		"operation": "execute",
		"duration":  duration.String(),
	}).Debug("Request command completed")

	return parseResponse(stdout.String())
}

// parseResponse splits raw curl -i output into headers and body and
// pulls the status code from the first header line.
func parseResponse(output string) (*Response, error) {
	headers, body, ok := splitResponse(output)
	if !ok {
		return nil, &ExecError{Kind: ExecMalformed, Message: "Could not parse response headers/body"}
	}

	statusLine := headers
	if idx := strings.Index(headers, "\n"); idx >= 0 {
		statusLine = headers[:idx]
	}
	match := statusLinePattern.FindStringSubmatch(statusLine)
	if match == nil {
		return nil, &ExecError{Kind: ExecMalformed, Message: "Could not extract status code"}
	}

	status, err := strconv.Atoi(match[1])
	if err != nil {
		return nil, &ExecError{Kind: ExecMalformed, Message: "Could not extract status code", Err: err}
	}

	return &Response{Status: status, Headers: headers, Body: body}, nil
}

func splitResponse(output string) (headers, body string, ok bool) {
	if headers, body, found := strings.Cut(output, "\n\n"); found {
		return headers, body, true
	}
	if headers, body, found := strings.Cut(output, "\r\n\r\n"); found {
		return headers, body, true
	}
	return "", "", false
}
