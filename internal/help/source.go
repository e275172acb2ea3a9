// Package help acquires raw help text from external commands. It owns the
// only external process call in the parse pipeline and bounds it with a
// timeout; everything downstream is pure text processing.
package help

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/actuallyrizzn/ucw/internal/parser"
)

// ErrAcquisition is wrapped by every failure to obtain help text, so
// callers can decide between strict propagation and the basic-spec
// fallback with a single errors.Is check.
var ErrAcquisition = errors.New("help text acquisition failed")

// DefaultTimeout bounds one help invocation.
const DefaultTimeout = 10 * time.Second

// pagerOffEnv keeps pager-driven tools (git, man) from blocking on
// interactive output.
var pagerOffEnv = []string{
	"PAGER=cat",
	"GIT_PAGER=cat",
	"MANPAGER=cat",
	"TERM=dumb",
	"GIT_TERMINAL_PROMPT=0",
}

// Source obtains help text for a command using the grammar's invocation
// lists in order.
type Source struct {
	Timeout time.Duration
}

func NewSource(timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Source{Timeout: timeout}
}

// Get runs the candidate help invocations for command until one produces
// output. Help text frequently goes to stderr and help invocations
// frequently exit non-zero, so stdout and stderr are combined and any
// non-empty output is accepted; the exit status is returned as advisory
// data. When every candidate fails, the error wraps ErrAcquisition.
func (s *Source) Get(ctx context.Context, command string, grammar parser.Grammar) (text string, exitStatus int, err error) {
	if strings.TrimSpace(command) == "" {
		return "", 0, fmt.Errorf("%w: empty command name", ErrAcquisition)
	}

	var lastErr error
	for _, argv := range grammar.HelpArgs(command) {
		out, status, runErr := s.runOne(ctx, argv)
		if len(strings.TrimSpace(out)) > 0 {
			return out, status, nil
		}
		if runErr != nil {
			lastErr = runErr
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no output from any help invocation")
	}
	return "", 0, fmt.Errorf("%w: %s: %v", ErrAcquisition, command, lastErr)
}

func (s *Source) runOne(ctx context.Context, argv []string) (string, int, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), pagerOffEnv...)
	// Grandchildren (man's pipeline, shell-spawned helpers) can hold the
	// output pipes open past the kill of the direct child; WaitDelay
	// forces Wait to return shortly after the deadline regardless.
	cmd.WaitDelay = time.Second

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	exitStatus := 0
	if runErr != nil {
		var ee *exec.ExitError
		if errors.As(runErr, &ee) {
			exitStatus = ee.ExitCode()
		} else {
			exitStatus = -1
		}
	}
	if runCtx.Err() != nil {
		return "", exitStatus, fmt.Errorf("timed out after %s: %s", s.Timeout, strings.Join(argv, " "))
	}
	return out.String(), exitStatus, runErr
}
