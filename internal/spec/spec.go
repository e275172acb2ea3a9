// Package spec defines the normalized data model shared by the parsers,
// the wrapper synthesizer and the code generator: a CommandSpec describes
// one command's invocation surface, and an ExecutionResult is the strict
// output envelope for running it.
package spec

import "encoding/json"

// TypeHint is the semantic type tag inferred for an option value or a
// positional argument.
type TypeHint string

const (
	TypeString  TypeHint = "string"
	TypeInteger TypeHint = "integer"
	TypePath    TypeHint = "path"
	TypeBoolean TypeHint = "boolean"
)

// CommandSpec is the parsed specification of one command. It is created
// fresh on every parse, is never cached, and is treated as immutable once
// returned.
type CommandSpec struct {
	Name        string              `json:"name"`
	Usage       string              `json:"usage,omitempty"`
	Description string              `json:"description,omitempty"`
	Options     []OptionSpec        `json:"options"`
	Positionals []PositionalArgSpec `json:"positional_args"`
	Examples    []string            `json:"examples,omitempty"`
}

// OptionSpec is one flag/option entry within a CommandSpec. Flag is the
// canonical form (first token seen in the help text); Aliases hold the
// remaining equivalent spellings from the same option line.
type OptionSpec struct {
	Flag        string   `json:"flag"`
	Aliases     []string `json:"aliases,omitempty"`
	TakesValue  bool     `json:"takes_value"`
	Description string   `json:"description,omitempty"`
	TypeHint    TypeHint `json:"type_hint"`
	Required    bool     `json:"required"`
	Default     string   `json:"default,omitempty"`
}

// Matches reports whether flag equals the canonical flag or any alias.
// Comparison is case-sensitive.
func (o *OptionSpec) Matches(flag string) bool {
	if o.Flag == flag {
		return true
	}
	for _, a := range o.Aliases {
		if a == flag {
			return true
		}
	}
	return false
}

// PositionalArgSpec is one positional argument slot extracted from the
// usage line. Slot order within CommandSpec.Positionals is the binding
// contract at call time.
type PositionalArgSpec struct {
	Name        string   `json:"name"`
	Required    bool     `json:"required"`
	Variadic    bool     `json:"variadic"`
	Description string   `json:"description,omitempty"`
	TypeHint    TypeHint `json:"type_hint"`
}

// Option returns the OptionSpec whose canonical flag or alias equals flag.
func (s *CommandSpec) Option(flag string) (*OptionSpec, bool) {
	for i := range s.Options {
		if s.Options[i].Matches(flag) {
			return &s.Options[i], true
		}
	}
	return nil, false
}

// IsBasic reports whether this is the minimal fallback spec: a name with
// no extracted structure.
func (s *CommandSpec) IsBasic() bool {
	return len(s.Options) == 0 && len(s.Positionals) == 0 && s.Usage == ""
}

// Clone returns a deep copy. Wrappers hold a private clone so later callers
// cannot mutate the spec a wrapper was built from.
func (s *CommandSpec) Clone() CommandSpec {
	out := *s
	if s.Options != nil {
		out.Options = make([]OptionSpec, len(s.Options))
		copy(out.Options, s.Options)
		for i, o := range s.Options {
			if o.Aliases != nil {
				out.Options[i].Aliases = append([]string(nil), o.Aliases...)
			}
		}
	}
	if s.Positionals != nil {
		out.Positionals = append([]PositionalArgSpec(nil), s.Positionals...)
	}
	if s.Examples != nil {
		out.Examples = append([]string(nil), s.Examples...)
	}
	return out
}

// ExecutionResult is the normalized outcome of running a wrapped command.
// Non-zero exit codes and timeouts are represented here as data, never as
// pipeline errors. The truncation flags report whether output limits cut
// stdout or stderr.
type ExecutionResult struct {
	Command        string  `json:"command"`
	Stdout         string  `json:"stdout"`
	Stderr         string  `json:"stderr"`
	ReturnCode     int     `json:"return_code"`
	Elapsed        float64 `json:"elapsed"`
	TruncatedLines bool    `json:"truncated_lines,omitempty"`
	TruncatedBytes bool    `json:"truncated_bytes,omitempty"`
}

// Success reports whether the command exited zero.
func (r ExecutionResult) Success() bool { return r.ReturnCode == 0 }

// MarshalJSON includes the derived success field alongside the stored ones.
func (r ExecutionResult) MarshalJSON() ([]byte, error) {
	type alias ExecutionResult
	return json.Marshal(struct {
		alias
		Success bool `json:"success"`
	}{alias(r), r.Success()})
}
