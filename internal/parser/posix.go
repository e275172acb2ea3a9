package parser

import (
	"regexp"
	"strings"

	"github.com/actuallyrizzn/ucw/internal/spec"
)

// DefaultPosixHelpFlags are the help flags tried in order on POSIX; a
// man-page lookup is the final fallback. The list is configurable because
// some tools only answer a secondary flag.
var DefaultPosixHelpFlags = []string{"--help", "-h"}

// PosixGrammar recognizes GNU/BSD style option lines: -a, --all,
// --block-size=SIZE, --color[=WHEN], -o FILE.
type PosixGrammar struct {
	helpFlags []string
	useMan    bool
}

func NewPosixGrammar() *PosixGrammar {
	return &PosixGrammar{helpFlags: DefaultPosixHelpFlags, useMan: true}
}

// NewPosixGrammarWithHelpFlags overrides the help invocation flag list.
// useMan keeps the man-page fallback after the flags are exhausted.
func NewPosixGrammarWithHelpFlags(flags []string, useMan bool) *PosixGrammar {
	if len(flags) == 0 {
		flags = DefaultPosixHelpFlags
	}
	return &PosixGrammar{helpFlags: flags, useMan: useMan}
}

func (g *PosixGrammar) Platform() string { return PlatformPosix }

func (g *PosixGrammar) HelpArgs(command string) [][]string {
	var lists [][]string
	for _, flag := range g.helpFlags {
		lists = append(lists, []string{command, flag})
	}
	if g.useMan {
		lists = append(lists, []string{"man", command})
	}
	return lists
}

// posixOptionLine matches a line whose first token is a short or long
// flag. The indent requirement keeps prose sentences that merely start
// with a dash out of the option table.
var posixOptionLine = regexp.MustCompile(`^\s*--?[A-Za-z]`)

// posixFlagsDescSplit separates the flags part from the description on
// 2+ spaces or a tab.
var posixFlagsDescSplit = regexp.MustCompile(`^(\s*-[^\t]+?)(?:\s{2,}|\t)(.+)$`)

// posixFlagToken validates a single flag spelling.
var posixFlagToken = regexp.MustCompile(`^--?[A-Za-z][A-Za-z0-9-]*$`)

// posixValuePlaceholder matches the capitalized or angle-bracketed value
// placeholder that signals a value-taking option: ARG, SIZE, <codec>.
var posixValuePlaceholder = regexp.MustCompile(`^(<[^>]+>|[A-Z][A-Z0-9_-]*|\[[^\]]+\])$`)

func (g *PosixGrammar) MatchOption(line string) bool {
	return posixOptionLine.MatchString(line)
}

// ParseOption splits a POSIX option line into one OptionSpec. Multiple
// comma-separated flag tokens become aliases of a single option whose
// canonical flag is the first token.
func (g *PosixGrammar) ParseOption(line string) (spec.OptionSpec, bool) {
	flagsPart := strings.TrimSpace(line)
	desc := ""
	if m := posixFlagsDescSplit.FindStringSubmatch(line); m != nil {
		flagsPart = strings.TrimSpace(m[1])
		desc = strings.TrimSpace(m[2])
	} else {
		// Some tools pad the flags column with a single space only.
		flagsPart, desc = splitFlagsProse(flagsPart)
	}

	var flags []string
	takesValue := false
	for _, tok := range strings.Split(flagsPart, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		flag, tokenTakesValue := splitPosixFlagToken(tok)
		if flag == "" {
			continue
		}
		takesValue = takesValue || tokenTakesValue
		flags = append(flags, flag)
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

// splitFlagsProse divides an option line with no 2+-space column gap:
// fields are consumed while they are flag spellings (or a value
// placeholder directly following one), and the first prose field starts
// the description.
func splitFlagsProse(line string) (flagsPart, desc string) {
	fields := strings.Fields(line)
	i := 0
	for i < len(fields) {
		tok := strings.TrimSuffix(fields[i], ",")
		if flag, _ := splitPosixFlagToken(tok); flag != "" {
			i++
			continue
		}
		if i > 0 && posixValuePlaceholder.MatchString(fields[i]) {
			i++
			continue
		}
		break
	}
	return strings.Join(fields[:i], " "), strings.Join(fields[i:], " ")
}

// splitPosixFlagToken reduces one flag token to its flag spelling and
// reports whether it carries a value form (=ARG, [=ARG], or a separate
// placeholder token).
func splitPosixFlagToken(tok string) (flag string, takesValue bool) {
	// --name=ARG and --name[=ARG]
	if i := strings.IndexAny(tok, "=["); i > 0 {
		head := tok[:i]
		if posixFlagToken.MatchString(head) {
			return head, true
		}
	}
	// -o FILE / --output FILE / -c <codec>
	if fields := strings.Fields(tok); len(fields) > 1 {
		if posixFlagToken.MatchString(fields[0]) && posixValuePlaceholder.MatchString(fields[1]) {
			return fields[0], true
		}
		tok = fields[0]
	}
	if posixFlagToken.MatchString(tok) {
		return tok, false
	}
	return "", false
}
