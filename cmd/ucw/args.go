package main

import "strings"

// splitCallArgs divides raw CLI tokens into the named and positional
// arguments fed to the wrapper. Flag-looking tokens become named keys:
// "--force" and "/Y" bind as boolean true, "--suffix=.bak" and "/C:cmd"
// carry their value, and a value-taking flag may also consume the next
// token. Everything after a bare "--" is positional.
func splitCallArgs(tokens []string, takesValue func(key string) bool) (named map[string]any, positionals []string) {
	named = map[string]any{}

	literal := false
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if literal || tok == "" || !isFlagToken(tok) {
			positionals = append(positionals, tok)
			continue
		}
		if tok == "--" {
			literal = true
			continue
		}

		key, value, hasValue := cutFlagToken(tok)
		if hasValue {
			named[key] = value
			continue
		}
		if takesValue != nil && takesValue(key) && i+1 < len(tokens) {
			named[key] = tokens[i+1]
			i++
			continue
		}
		named[key] = true
	}
	return named, positionals
}

func isFlagToken(tok string) bool {
	if strings.HasPrefix(tok, "-") {
		// A lone "-" conventionally means stdin.
		return tok != "-"
	}
	if strings.HasPrefix(tok, "/") && len(tok) > 1 && !strings.Contains(tok[1:], "/") {
		return true
	}
	return false
}

// cutFlagToken splits "--suffix=.bak" or "/C:value" into key and value.
// Slash-style flags use ":" as the separator, dash-style use "=".
func cutFlagToken(tok string) (key, value string, hasValue bool) {
	sep := "="
	if strings.HasPrefix(tok, "/") {
		sep = ":"
	}
	if k, v, ok := strings.Cut(tok, sep); ok {
		return k, v, true
	}
	return tok, "", false
}
