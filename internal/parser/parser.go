// Package parser turns raw command help text into a normalized
// spec.CommandSpec. A shared extraction skeleton (usage line, positional
// arguments, option table, description, examples) is parameterized by a
// platform Grammar that supplies the option-line syntax and the help
// invocation argument lists.
//
// Parsing never fails: malformed or unrecognizable text degrades to the
// basic spec (name only, empty collections).
package parser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/actuallyrizzn/ucw/internal/spec"
)

// Platform names accepted by ForPlatform. "linux" is an alias for "posix".
const (
	PlatformPosix   = "posix"
	PlatformWindows = "windows"
)

// Grammar supplies the platform-specific pieces of the extraction
// skeleton: how to obtain help text and how to recognize and split an
// option line.
type Grammar interface {
	// Platform returns the grammar's platform name.
	Platform() string
	// HelpArgs returns the argv lists to try, in order, when acquiring
	// help text for command.
	HelpArgs(command string) [][]string
	// MatchOption reports whether line is an option definition line.
	MatchOption(line string) bool
	// ParseOption splits an option line into an OptionSpec. ok is false
	// when the line does not yield a usable flag.
	ParseOption(line string) (opt spec.OptionSpec, ok bool)
}

// Parser applies the shared extraction skeleton with one Grammar.
type Parser struct {
	grammar Grammar
}

func New(g Grammar) *Parser {
	return &Parser{grammar: g}
}

// ForPlatform returns a parser for the named platform. "auto" and ""
// detect from the running OS; "linux" is accepted as an alias for "posix".
func ForPlatform(name string) (*Parser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return ForPlatform(DetectPlatform())
	case PlatformPosix, "linux", "darwin":
		return New(NewPosixGrammar()), nil
	case PlatformWindows:
		return New(NewWindowsGrammar()), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", name)
	}
}

// DetectPlatform maps the running OS to a parser platform name.
func DetectPlatform() string {
	if runtime.GOOS == "windows" {
		return PlatformWindows
	}
	return PlatformPosix
}

func (p *Parser) Grammar() Grammar { return p.grammar }

// usageMarker matches the leading usage/syntax label on a usage line.
var usageMarker = regexp.MustCompile(`(?i)^\s*(usage|syntax)\s*:\s*`)

// Parse extracts a CommandSpec from raw help text. exitStatus is advisory
// only: many tools exit non-zero from help invocations, so extraction is
// attempted regardless and the basic spec is returned only when the text
// yields no usage tokens and no option lines.
func (p *Parser) Parse(name, rawHelp string, exitStatus int) spec.CommandSpec {
	_ = exitStatus

	text := StripOverstrike(rawHelp)
	lines := strings.Split(text, "\n")

	usage := p.extractUsage(lines, name)
	positionals := extractPositionals(usage, name)
	options := p.extractOptions(lines)

	if usage == "" && len(options) == 0 && len(positionals) == 0 {
		return spec.CommandSpec{
			Name:        name,
			Options:     []spec.OptionSpec{},
			Positionals: []spec.PositionalArgSpec{},
		}
	}

	out := spec.CommandSpec{
		Name:        name,
		Usage:       usage,
		Description: p.extractDescription(lines),
		Options:     options,
		Positionals: positionals,
		Examples:    extractExamples(lines),
	}
	return out
}

// extractUsage finds the first usage line and concatenates indented
// continuation lines (not blank, not an option line) onto it.
func (p *Parser) extractUsage(lines []string, name string) string {
	start := -1
	var first string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if usageMarker.MatchString(line) {
			start, first = i, trimmed
			break
		}
		// POSIX man pages often give a bare synopsis: the command name
		// followed by bracketed or angle-bracketed tokens.
		if p.grammar.Platform() == PlatformPosix &&
			(strings.HasPrefix(trimmed, name+" ") || strings.HasPrefix(trimmed, filepath.Base(name)+" ")) &&
			(strings.Contains(trimmed, "[") || strings.Contains(trimmed, "<")) {
			start, first = i, trimmed
			break
		}
	}
	if start < 0 {
		return ""
	}

	parts := []string{first}
	for _, line := range lines[start+1:] {
		if strings.TrimSpace(line) == "" {
			break
		}
		// Continuations are indented; an unindented line is prose.
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			break
		}
		if p.grammar.MatchOption(line) {
			break
		}
		parts = append(parts, strings.TrimSpace(line))
	}
	return strings.Join(parts, " ")
}

// extractOptions collects option lines in order of first appearance.
// Flags already seen (canonical or alias) are skipped so each option has
// a unique flag set.
func (p *Parser) extractOptions(lines []string) []spec.OptionSpec {
	options := []spec.OptionSpec{}
	for _, line := range lines {
		if !p.grammar.MatchOption(line) {
			continue
		}
		opt, ok := p.grammar.ParseOption(line)
		if !ok {
			continue
		}
		dup := false
		for i := range options {
			if options[i].Matches(opt.Flag) {
				dup = true
				break
			}
		}
		if !dup {
			options = append(options, opt)
		}
	}
	return options
}

// optionPlaceholder matches usage tokens that stand for "any options"
// rather than a positional slot, e.g. [OPTION]... or [options].
var optionPlaceholder = regexp.MustCompile(`(?i)^\[?options?\]?(\.\.\.)?$`)

// extractPositionals tokenizes the usage line into positional slots,
// preserving left-to-right order. Bracketed tokens are optional, an
// ellipsis marks a variadic slot, and TOK [TOK ...] collapses into one
// variadic slot.
func extractPositionals(usage, name string) []spec.PositionalArgSpec {
	if usage == "" {
		return []spec.PositionalArgSpec{}
	}
	u := usageMarker.ReplaceAllString(usage, "")
	// Only the first usage alternative defines the positional contract.
	if i := strings.Index(u, " or: "); i >= 0 {
		u = u[:i]
	}

	tokens := groupBracketTokens(strings.Fields(u))

	// Commands invoked by path print their basename in usage lines.
	base := filepath.Base(name)

	args := []spec.PositionalArgSpec{}
	skippedName := false
	for _, tok := range tokens {
		if !skippedName && (strings.EqualFold(tok, name) || strings.EqualFold(tok, base) ||
			strings.HasSuffix(tok, "/"+base)) {
			skippedName = true
			continue
		}
		arg, ok := parsePositionalToken(tok)
		if !ok {
			continue
		}
		// TOK [TOK ...] is the variadic form of the preceding slot.
		if n := len(args); n > 0 && arg.Variadic && args[n-1].Name == arg.Name {
			args[n-1].Variadic = true
			continue
		}
		args = append(args, arg)
	}
	return args
}

// groupBracketTokens re-joins whitespace-split tokens so a bracketed
// group like "[FILE ...]" becomes a single token.
func groupBracketTokens(fields []string) []string {
	var out []string
	depth := 0
	var buf []string
	for _, f := range fields {
		depth += strings.Count(f, "[") - strings.Count(f, "]")
		buf = append(buf, f)
		if depth <= 0 {
			out = append(out, strings.Join(buf, " "))
			buf = nil
			depth = 0
		}
	}
	if len(buf) > 0 {
		out = append(out, strings.Join(buf, " "))
	}
	return out
}

// positionalName filters out usage debris (nested brackets, pipes,
// drive-letter forms) that is not a plain argument token.
var positionalName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

func parsePositionalToken(tok string) (spec.PositionalArgSpec, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" || tok == ":" || tok == "|" || tok == "..." {
		return spec.PositionalArgSpec{}, false
	}
	if optionPlaceholder.MatchString(tok) {
		return spec.PositionalArgSpec{}, false
	}
	// Flag patterns inside the usage line are not positionals.
	if strings.HasPrefix(tok, "-") || strings.HasPrefix(tok, "[-") ||
		strings.HasPrefix(tok, "/") || strings.HasPrefix(tok, "[/") {
		return spec.PositionalArgSpec{}, false
	}

	// Both [FILE]... and [FILE...] occur in the wild, so strip ellipses
	// and brackets in whichever order they appear.
	required := true
	variadic := false
	if strings.HasSuffix(tok, "...") {
		variadic = true
		tok = strings.TrimSpace(strings.TrimSuffix(tok, "..."))
	}
	if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
		required = false
		tok = strings.TrimSpace(tok[1 : len(tok)-1])
	}
	if strings.HasSuffix(tok, "...") {
		variadic = true
		tok = strings.TrimSpace(strings.TrimSuffix(tok, "..."))
	}
	// Bracket-group form: "FILE ..." after the brackets were stripped.
	if fields := strings.Fields(tok); len(fields) == 2 && fields[1] == "..." {
		variadic = true
		tok = fields[0]
	}

	tok = strings.Trim(tok, "<>")
	tok = strings.TrimSpace(tok)
	if tok == "" || optionPlaceholder.MatchString(tok) || !positionalName.MatchString(tok) {
		return spec.PositionalArgSpec{}, false
	}

	name := strings.ToUpper(tok)
	return spec.PositionalArgSpec{
		Name:     name,
		Required: required,
		Variadic: variadic,
		TypeHint: spec.InferPositionalType(name),
	}, true
}

var sectionHeaders = []string{"SYNOPSIS", "DESCRIPTION", "OPTIONS", "EXAMPLES", "SEE ALSO"}

// extractDescription finds a one-line command description: the NAME
// section of a man page ("ls - list directory contents") when present,
// otherwise the first prose line near the top of the help text.
func (p *Parser) extractDescription(lines []string) string {
	inName := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "NAME" {
			inName = true
			continue
		}
		if inName {
			if isSectionHeader(line) {
				break
			}
			if line == "" {
				continue
			}
			if _, desc, ok := strings.Cut(line, " - "); ok {
				return strings.TrimSpace(desc)
			}
			return line
		}
	}

	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for _, raw := range lines[:limit] {
		line := strings.TrimSpace(raw)
		if line == "" || usageMarker.MatchString(line) || isSectionHeader(line) {
			continue
		}
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "/") ||
			strings.HasSuffix(line, ":") {
			continue
		}
		// Indented lines at the top are usually usage continuations.
		if strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t") {
			continue
		}
		return line
	}
	return ""
}

func isSectionHeader(line string) bool {
	for _, h := range sectionHeaders {
		if line == h {
			return true
		}
	}
	return false
}

// extractExamples collects the lines of an "Examples" section, stopping
// at the next section boundary.
func extractExamples(lines []string) []string {
	var examples []string
	in := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !in {
			if strings.Contains(strings.ToLower(line), "example") && strings.HasSuffix(line, ":") {
				in = true
			}
			continue
		}
		if line == "" {
			continue
		}
		if usageMarker.MatchString(line) || isSectionHeader(line) || strings.HasSuffix(line, ":") {
			break
		}
		examples = append(examples, line)
	}
	return examples
}
