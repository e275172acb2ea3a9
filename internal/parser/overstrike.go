package parser

import "strings"

// StripOverstrike removes nroff overstrike sequences (a character, a
// backspace, then the emphasized character, e.g. N\bNA\bAM\bME\bE) that
// man pages emit for bold and underlined text.
func StripOverstrike(text string) string {
	if !strings.ContainsRune(text, '\b') {
		return text
	}
	runes := []rune(text)
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		if i+2 < len(runes) && runes[i+1] == '\b' {
			out = append(out, runes[i+2])
			i += 2
			continue
		}
		if runes[i] == '\b' {
			continue
		}
		out = append(out, runes[i])
	}
	return string(out)
}
