package parser

import (
	"regexp"
	"strings"

	"github.com/actuallyrizzn/ucw/internal/spec"
)

// DefaultWindowsHelpFlags are the help arguments tried in order on
// Windows.
var DefaultWindowsHelpFlags = []string{"/?", "/help"}

// WindowsGrammar recognizes cmd.exe style option lines: /A, /Q:response,
// /option=value. Dash-prefixed flags also occur in Windows help output
// and are accepted.
type WindowsGrammar struct {
	helpFlags []string
}

func NewWindowsGrammar() *WindowsGrammar {
	return &WindowsGrammar{helpFlags: DefaultWindowsHelpFlags}
}

func NewWindowsGrammarWithHelpFlags(flags []string) *WindowsGrammar {
	if len(flags) == 0 {
		flags = DefaultWindowsHelpFlags
	}
	return &WindowsGrammar{helpFlags: flags}
}

func (g *WindowsGrammar) Platform() string { return PlatformWindows }

func (g *WindowsGrammar) HelpArgs(command string) [][]string {
	var lists [][]string
	for _, flag := range g.helpFlags {
		lists = append(lists, []string{command, flag})
	}
	return lists
}

// windowsOptionLine matches a line whose first token is a slash or dash
// flag.
var windowsOptionLine = regexp.MustCompile(`^\s*[/-][A-Za-z?]`)

// windowsFlagsDescSplit separates the flags part from the description on
// 2+ spaces or a tab.
var windowsFlagsDescSplit = regexp.MustCompile(`^(\s*[/-][^\t]+?)(?:\s{2,}|\t)(.+)$`)

// windowsFlagToken captures a flag spelling with an optional :VALUE or
// =VALUE suffix, possibly bracketed: /Q, /A:attributes, /O[:sortorder].
var windowsFlagToken = regexp.MustCompile(`^([/-][A-Za-z?][A-Za-z0-9]*)(\[?[:=][^\s,]*)?$`)

func (g *WindowsGrammar) MatchOption(line string) bool {
	return windowsOptionLine.MatchString(line)
}

func (g *WindowsGrammar) ParseOption(line string) (spec.OptionSpec, bool) {
	flagsPart := strings.TrimSpace(line)
	desc := ""
	if m := windowsFlagsDescSplit.FindStringSubmatch(line); m != nil {
		flagsPart = strings.TrimSpace(m[1])
		desc = strings.TrimSpace(m[2])
	} else if head, tail, ok := strings.Cut(flagsPart, " "); ok {
		// Some /? output separates flag and description by one space.
		flagsPart = head
		desc = strings.TrimSpace(tail)
	}

	var flags []string
	takesValue := false
	for _, tok := range strings.Split(flagsPart, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		m := windowsFlagToken.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		if m[2] != "" {
			takesValue = true
		}
		flags = append(flags, m[1])
	}
	if len(flags) == 0 {
		return spec.OptionSpec{}, false
	}

	opt := spec.OptionSpec{
		Flag:        flags[0],
		TakesValue:  takesValue,
		Description: desc,
	}
	if len(flags) > 1 {
		opt.Aliases = flags[1:]
	}
	opt.TypeHint = spec.InferOptionType(strings.Join(flags, " "), desc, takesValue)
	return opt, true
}
