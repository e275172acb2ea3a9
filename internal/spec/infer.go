package spec

import "strings"

// inferRule maps a keyword category to a type hint. Rules are scanned in
// order and the first matching category wins, so precedence is explicit
// and testable rather than buried in branching.
type inferRule struct {
	hint     TypeHint
	keywords []string
}

// inferRules is the fixed precedence table: path-like keywords beat
// numeric ones, numeric ones beat the string default.
var inferRules = []inferRule{
	{TypePath, []string{"file", "dir", "path", "directory", "source", "dest", "target"}},
	{TypeInteger, []string{"number", "count", "size", "timeout", "port"}},
}

// InferOptionType returns the type hint for an option. Options that take
// no value are always boolean; for value-taking options the flag name and
// description are scanned against the rule table, defaulting to string.
func InferOptionType(flag, description string, takesValue bool) TypeHint {
	if !takesValue {
		return TypeBoolean
	}
	if hint, ok := scanKeywords(flag + " " + description); ok {
		return hint
	}
	return TypeString
}

// InferPositionalType returns the type hint for a positional argument
// name token (e.g. FILE -> path, COUNT -> integer), defaulting to string.
func InferPositionalType(name string) TypeHint {
	if hint, ok := scanKeywords(name); ok {
		return hint
	}
	return TypeString
}

func scanKeywords(text string) (TypeHint, bool) {
	lower := strings.ToLower(text)
	for _, rule := range inferRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.hint, true
			}
		}
	}
	return "", false
}
