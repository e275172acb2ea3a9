// Package execute runs reconstructed command lines and normalizes the
// outcome into spec.ExecutionResult. Non-zero exits, timeouts, and start
// failures are all data in the result, never pipeline errors: the
// synthesis pipeline's job ends at wrapper construction, and execution
// outcomes are reported as-is.
package execute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/actuallyrizzn/ucw/internal/spec"
)

// DefaultTimeout bounds one wrapped-command execution.
const DefaultTimeout = 30 * time.Second

// Limits controls output truncation boundaries.
type Limits struct {
	MaxLines int
	MaxBytes int
}

// Executor runs argv with a bounded wait and output limits.
type Executor struct {
	Timeout time.Duration
	Limits  Limits
}

func New(timeout time.Duration, limits Limits) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if limits.MaxLines <= 0 {
		limits.MaxLines = 2000
	}
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = 51200
	}
	return &Executor{Timeout: timeout, Limits: limits}
}

// Run executes argv and returns the normalized result. The only error
// return is argv-level misuse (empty argv); everything the process does,
// including failing to start, is reported inside the result.
func (e *Executor) Run(ctx context.Context, argv []string) (spec.ExecutionResult, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return spec.ExecutionResult{}, fmt.Errorf("empty argv")
	}

	runCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	// Grandchildren holding the output pipes must not extend the wait
	// past the deadline.
	cmd.WaitDelay = time.Second

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start).Seconds()

	exitCode := 0
	if runErr != nil {
		var ee *exec.ExitError
		if errors.As(runErr, &ee) {
			exitCode = ee.ExitCode()
		} else {
			exitCode = -1
		}
	}

	outText, truncLinesOut, truncBytesOut := applyLimits(stdout.String(), e.Limits)
	errText, truncLinesErr, truncBytesErr := applyLimits(stderr.String(), e.Limits)

	if runCtx.Err() == context.DeadlineExceeded {
		exitCode = -1
		if errText != "" {
			errText += "\n"
		}
		errText += fmt.Sprintf("command timed out after %s", e.Timeout)
	} else if runErr != nil && exitCode == -1 && errText == "" {
		// Start failure (e.g. executable not found).
		errText = runErr.Error()
	}

	return spec.ExecutionResult{
		Command:        strings.Join(argv, " "),
		Stdout:         outText,
		Stderr:         errText,
		ReturnCode:     exitCode,
		Elapsed:        elapsed,
		TruncatedLines: truncLinesOut || truncLinesErr,
		TruncatedBytes: truncBytesOut || truncBytesErr,
	}, nil
}

// applyLimits truncates text by line and byte limits.
func applyLimits(text string, limits Limits) (out string, truncatedLines bool, truncatedBytes bool) {
	if limits.MaxLines > 0 {
		lines := strings.Split(text, "\n")
		if len(lines) > limits.MaxLines {
			lines = lines[:limits.MaxLines]
			text = strings.Join(lines, "\n")
			truncatedLines = true
		}
	}
	if limits.MaxBytes > 0 && len(text) > limits.MaxBytes {
		text = text[:limits.MaxBytes]
		truncatedBytes = true
	}
	return text, truncatedLines, truncatedBytes
}
