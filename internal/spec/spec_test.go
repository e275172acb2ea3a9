package spec

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestOptionMatches(t *testing.T) {
	opt := OptionSpec{Flag: "-f", Aliases: []string{"--force"}}
	if !opt.Matches("-f") || !opt.Matches("--force") {
		t.Fatal("expected both canonical flag and alias to match")
	}
	if opt.Matches("-F") {
		t.Fatal("matching must be case-sensitive")
	}
}

func TestCommandSpecOptionLookup(t *testing.T) {
	s := CommandSpec{
		Name: "cp",
		Options: []OptionSpec{
			{Flag: "-f", Aliases: []string{"--force"}},
			{Flag: "-v", Aliases: []string{"--verbose"}},
		},
	}
	o, ok := s.Option("--verbose")
	if !ok || o.Flag != "-v" {
		t.Fatalf("lookup by alias failed: %+v ok=%v", o, ok)
	}
	if _, ok := s.Option("--missing"); ok {
		t.Fatal("unexpected match for unknown flag")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := CommandSpec{
		Name:        "ls",
		Usage:       "ls [OPTION]... [FILE]...",
		Options:     []OptionSpec{{Flag: "-a", Aliases: []string{"--all"}}},
		Positionals: []PositionalArgSpec{{Name: "FILE", Variadic: true}},
		Examples:    []string{"ls -a"},
	}
	c := s.Clone()
	c.Options[0].Flag = "-b"
	c.Options[0].Aliases[0] = "--broken"
	c.Positionals[0].Name = "DIR"
	if s.Options[0].Flag != "-a" || s.Options[0].Aliases[0] != "--all" || s.Positionals[0].Name != "FILE" {
		t.Fatalf("clone shares backing storage with original: %+v", s)
	}
}

func TestIsBasic(t *testing.T) {
	s := CommandSpec{Name: "mystery"}
	if !s.IsBasic() {
		t.Fatal("name-only spec should be basic")
	}
	s.Usage = "mystery FILE"
	if s.IsBasic() {
		t.Fatal("spec with usage is not basic")
	}
}

func TestExecutionResultJSON(t *testing.T) {
	r := ExecutionResult{Command: "ls -a", ReturnCode: 0, Elapsed: 0.5}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"success":true`) {
		t.Fatalf("derived success missing from JSON: %s", b)
	}

	r.ReturnCode = 2
	b, _ = json.Marshal(r)
	if !strings.Contains(string(b), `"success":false`) {
		t.Fatalf("expected success=false in JSON: %s", b)
	}
}
