package execute

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunSuccess(t *testing.T) {
	e := New(2*time.Second, Limits{MaxLines: 100, MaxBytes: 4096})
	res, err := e.Run(context.Background(), []string{"echo", "ok"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Success() || res.ReturnCode != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if strings.TrimSpace(res.Stdout) != "ok" {
		t.Fatalf("stdout: %q", res.Stdout)
	}
	if res.Command != "echo ok" {
		t.Fatalf("command not reconstructed: %q", res.Command)
	}
	if res.Elapsed < 0 {
		t.Fatalf("elapsed: %v", res.Elapsed)
	}
}

func TestRunNonZeroExitIsData(t *testing.T) {
	e := New(2*time.Second, Limits{})
	res, err := e.Run(context.Background(), []string{"sh", "-c", "echo boom >&2; exit 3"})
	if err != nil {
		t.Fatalf("non-zero exit must not be a pipeline error: %v", err)
	}
	if res.Success() || res.ReturnCode != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if strings.TrimSpace(res.Stderr) != "boom" {
		t.Fatalf("stderr: %q", res.Stderr)
	}
}

func TestRunTimeout(t *testing.T) {
	e := New(200*time.Millisecond, Limits{})
	res, err := e.Run(context.Background(), []string{"sleep", "5"})
	if err != nil {
		t.Fatalf("timeout must not be a pipeline error: %v", err)
	}
	if res.Success() || res.ReturnCode != -1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Stderr, "timed out") {
		t.Fatalf("stderr: %q", res.Stderr)
	}
}

func TestRunTimeoutWithLingeringGrandchild(t *testing.T) {
	// The shell dies at the deadline but its sleep child keeps the
	// output pipes open; the wait must still be bounded.
	e := New(200*time.Millisecond, Limits{})
	start := time.Now()
	res, err := e.Run(context.Background(), []string{"sh", "-c", "sleep 5; echo late"})
	if err != nil {
		t.Fatalf("timeout must not be a pipeline error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("run not bounded by timeout, took %v", elapsed)
	}
	if res.Success() || !strings.Contains(res.Stderr, "timed out") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRunStartFailureIsData(t *testing.T) {
	e := New(time.Second, Limits{})
	res, err := e.Run(context.Background(), []string{"/nonexistent/definitely-missing"})
	if err != nil {
		t.Fatalf("start failure must not be a pipeline error: %v", err)
	}
	if res.Success() || res.Stderr == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRunEmptyArgv(t *testing.T) {
	e := New(time.Second, Limits{})
	if _, err := e.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty argv")
	}
}

func TestRunOutputLimits(t *testing.T) {
	e := New(2*time.Second, Limits{MaxLines: 3, MaxBytes: 4096})
	res, err := e.Run(context.Background(), []string{"sh", "-c", "seq 1 10"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.TruncatedLines {
		t.Fatalf("expected line truncation: %+v", res)
	}
	if got := len(strings.Split(res.Stdout, "\n")); got != 3 {
		t.Fatalf("lines after truncation: %d", got)
	}

	e = New(2*time.Second, Limits{MaxLines: 1000, MaxBytes: 5})
	res, _ = e.Run(context.Background(), []string{"sh", "-c", "echo aaaaaaaaaa"})
	if !res.TruncatedBytes || len(res.Stdout) != 5 {
		t.Fatalf("byte truncation: %+v", res)
	}
}
