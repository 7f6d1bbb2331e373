package workflow

import (
	"bytes"
	"context"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/johnnynv/DocSentry/pkg/logger"
)

const (
	ghPreflightTimeout = 5 * time.Second
	ghCallTimeout      = 30 * time.Second
)

// GHClient runs API calls through the gh CLI, reusing its stored
// authentication instead of carrying a token of its own.
type GHClient struct {
	binary           string
	preflightTimeout time.Duration
	callTimeout      time.Duration
	logger           *logger.Entry
}

// NewGHClient verifies the gh CLI is installed and authenticated before
// returning a usable client.
func NewGHClient(ctx context.Context, parentLogger *logger.Entry) (*GHClient, error) {
	client := &GHClient{
		binary:           "gh",
		preflightTimeout: ghPreflightTimeout,
		callTimeout:      ghCallTimeout,
		logger: parentLogger.WithFields(logger.Fields{
			"component": "workflow",
			"transport": "gh",
		}),
	}
	if err := client.preflight(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *GHClient) preflight(ctx context.Context) error {
	if err := c.runCheck(ctx, "gh --version", "--version"); err != nil {
		if _, ok := err.(*TimeoutError); ok {
			return err
		}
		return &CLINotFoundError{Err: err}
	}
	if err := c.runCheck(ctx, "gh auth status", "auth", "status"); err != nil {
		if _, ok := err.(*TimeoutError); ok {
			return err
		}
		return &AuthError{Message: "gh CLI not authenticated. Run 'gh auth login'"}
	}
	c.logger.Debug("gh CLI available and authenticated")
	return nil
}

func (c *GHClient) runCheck(ctx context.Context, operation string, args ...string) error {
	checkCtx, cancel := context.WithTimeout(ctx, c.preflightTimeout)
	defer cancel()

	cmd := exec.CommandContext(checkCtx, c.binary, args...)
	if err := cmd.Run(); err != nil {
		if checkCtx.Err() == context.DeadlineExceeded {
			return &TimeoutError{Operation: operation, Timeout: c.preflightTimeout}
		}
		return err
	}
	return nil
}

// Call runs `gh api` for the endpoint and returns the raw response body
func (c *GHClient) Call(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	target := endpoint
	if len(params) > 0 {
		target = endpoint + "?" + params.Encode()
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	cmd := exec.CommandContext(callCtx, c.binary, "api", target)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.WithEndpoint(endpoint).Debug("Running gh api")

	if err := cmd.Run(); err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			c.logger.WithEndpoint(endpoint).Warn("gh api request timed out")
			return nil, &TimeoutError{Operation: "gh api request for " + endpoint, Timeout: c.callTimeout}
		}
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = err.Error()
		}
		c.logger.WithEndpoint(endpoint).WithField("stderr", message).Warn("gh api failed")
		return nil, &APIError{Endpoint: endpoint, Message: message}
	}

	return stdout.Bytes(), nil
}
