package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/actuallyrizzn/ucw/internal/spec"
)

const dirHelp = "Displays a list of files and subdirectories in a directory.\n" +
	"\n" +
	"Syntax: DIR [drive:][path][filename] [/A[[:]attributes]] [/B] [/C]\n" +
	"\n" +
	"  /A          Displays files with specified attributes.\n" +
	"  /B          Uses bare format.\n" +
	"  /O:sortorder   List by files in sorted order.\n" +
	"  /T=timefield   Controls which time field displayed.\n"

func TestParseWindowsDir(t *testing.T) {
	p := New(NewWindowsGrammar())
	got := p.Parse("dir", dirHelp, 0)

	cases := []struct {
		flag       string
		takesValue bool
		hint       spec.TypeHint
	}{
		{"/A", false, spec.TypeBoolean},
		{"/B", false, spec.TypeBoolean},
		{"/O", true, spec.TypePath},
		{"/T", true, spec.TypeString},
	}
	if len(got.Options) != len(cases) {
		t.Fatalf("expected %d options, got %d: %+v", len(cases), len(got.Options), got.Options)
	}
	for i, tc := range cases {
		o := got.Options[i]
		if o.Flag != tc.flag || o.TakesValue != tc.takesValue || o.TypeHint != tc.hint {
			t.Fatalf("option %d = %+v, want flag=%q takesValue=%v hint=%q", i, o, tc.flag, tc.takesValue, tc.hint)
		}
	}
	if got.Description != "Displays a list of files and subdirectories in a directory." {
		t.Fatalf("description: %q", got.Description)
	}
}

func TestWindowsBracketedValueForm(t *testing.T) {
	g := NewWindowsGrammar()
	opt, ok := g.ParseOption("  /Q[:response]   Quiet mode with optional response.")
	if !ok {
		t.Fatal("parse failed")
	}
	if opt.Flag != "/Q" || !opt.TakesValue {
		t.Fatalf("unexpected option: %+v", opt)
	}
}

func TestWindowsDashFlagAccepted(t *testing.T) {
	g := NewWindowsGrammar()
	if !g.MatchOption("  -y   Suppresses prompting.") {
		t.Fatal("dash-prefixed flag should match the Windows grammar")
	}
	opt, ok := g.ParseOption("  -y   Suppresses prompting.")
	if !ok || opt.Flag != "-y" || opt.TakesValue {
		t.Fatalf("unexpected option: %+v ok=%v", opt, ok)
	}
}

func TestWindowsHelpArgs(t *testing.T) {
	g := NewWindowsGrammar()
	want := [][]string{{"xcopy", "/?"}, {"xcopy", "/help"}}
	if diff := cmp.Diff(want, g.HelpArgs("xcopy")); diff != "" {
		t.Fatalf("help args mismatch (-want +got):\n%s", diff)
	}
}

func TestPosixHelpArgsIncludeManFallback(t *testing.T) {
	g := NewPosixGrammar()
	want := [][]string{{"cp", "--help"}, {"cp", "-h"}, {"man", "cp"}}
	if diff := cmp.Diff(want, g.HelpArgs("cp")); diff != "" {
		t.Fatalf("help args mismatch (-want +got):\n%s", diff)
	}
}

func TestPosixHelpArgsConfigurable(t *testing.T) {
	g := NewPosixGrammarWithHelpFlags([]string{"--usage"}, false)
	want := [][]string{{"tool", "--usage"}}
	if diff := cmp.Diff(want, g.HelpArgs("tool")); diff != "" {
		t.Fatalf("help args mismatch (-want +got):\n%s", diff)
	}
}
