package api

import (
	"regexp"
	"strings"
)

// fourDigitRun matches standalone 4-digit sequences (years, PINs, card
// chunks).
var fourDigitRun = regexp.MustCompile(`\b\d{4}\b`)

// MaskText applies display-time PII masking: vowels become 'X' and
// standalone 4-digit runs become "XXXX". Masking is irreversible on the
// rendered text only — stored rows are untouched.
func MaskText(text string) string {
	masked := strings.Map(func(r rune) rune {
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			return 'X'
		}
		return r
	}, text)
	return fourDigitRun.ReplaceAllString(masked, "XXXX")
}
