package help

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/actuallyrizzn/ucw/internal/parser"
	"github.com/actuallyrizzn/ucw/internal/spec"
)

// stubGrammar drives Get with fixed argv candidates.
type stubGrammar struct {
	argv [][]string
}

func (s *stubGrammar) Platform() string                          { return parser.PlatformPosix }
func (s *stubGrammar) HelpArgs(string) [][]string                { return s.argv }
func (s *stubGrammar) MatchOption(string) bool                   { return false }
func (s *stubGrammar) ParseOption(string) (spec.OptionSpec, bool) { return spec.OptionSpec{}, false }

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestGetFirstCandidateWins(t *testing.T) {
	script := writeScript(t, `echo "Usage: fake [OPTION]"`)
	src := NewSource(2 * time.Second)
	text, status, err := src.Get(context.Background(), "fake", &stubGrammar{argv: [][]string{{script, "--help"}}})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if status != 0 {
		t.Fatalf("status: %d", status)
	}
	if text != "Usage: fake [OPTION]\n" {
		t.Fatalf("text: %q", text)
	}
}

func TestGetNonZeroExitStillYieldsText(t *testing.T) {
	script := writeScript(t, `echo "Usage: fake" >&2; exit 2`)
	src := NewSource(2 * time.Second)
	text, status, err := src.Get(context.Background(), "fake", &stubGrammar{argv: [][]string{{script}}})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if status != 2 {
		t.Fatalf("exit status not reported: %d", status)
	}
	if text != "Usage: fake\n" {
		t.Fatalf("stderr not captured: %q", text)
	}
}

func TestGetFallsBackToNextCandidate(t *testing.T) {
	silent := writeScript(t, `exit 1`)
	loud := writeScript(t, `echo "Usage: fake"`)
	src := NewSource(2 * time.Second)
	text, _, err := src.Get(context.Background(), "fake", &stubGrammar{argv: [][]string{{silent}, {loud}}})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if text != "Usage: fake\n" {
		t.Fatalf("fallback candidate not used: %q", text)
	}
}

func TestGetAcquisitionFailure(t *testing.T) {
	src := NewSource(2 * time.Second)
	_, _, err := src.Get(context.Background(), "fake", &stubGrammar{argv: [][]string{{"/nonexistent/definitely-missing"}}})
	if !errors.Is(err, ErrAcquisition) {
		t.Fatalf("expected ErrAcquisition, got %v", err)
	}
}

func TestGetTimeout(t *testing.T) {
	script := writeScript(t, `sleep 5; echo late`)
	src := NewSource(200 * time.Millisecond)
	start := time.Now()
	_, _, err := src.Get(context.Background(), "fake", &stubGrammar{argv: [][]string{{script}}})
	if !errors.Is(err, ErrAcquisition) {
		t.Fatalf("expected ErrAcquisition on timeout, got %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Fatal("timeout did not bound the invocation")
	}
}

func TestGetEmptyCommandName(t *testing.T) {
	src := NewSource(time.Second)
	_, _, err := src.Get(context.Background(), "  ", &stubGrammar{})
	if !errors.Is(err, ErrAcquisition) {
		t.Fatalf("expected ErrAcquisition, got %v", err)
	}
}
