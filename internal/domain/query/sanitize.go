package query

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/sheetdex/internal/domain"
)

var injectionRegex = regexp.MustCompile(
	`(?i)<\s*/?\s*(script|iframe|object|embed)\b|javascript\s*:|vbscript\s*:|data\s*:\s*text/html|\bon[a-z]+\s*=`,
)

// Sanitize normalizes a raw query and rejects empty, over-long or script-bearing input.
// Control characters are replaced with spaces and runs of whitespace are collapsed.
func Sanitize(raw string, maxLen int) (string, error) {
	if !utf8.ValidString(raw) {
		return "", fmt.Errorf("query is not valid UTF-8: %w", domain.ErrInvalidQuery)
	}

	s := norm.NFKC.String(raw)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")

	if s == "" {
		return "", fmt.Errorf("query is empty: %w", domain.ErrInvalidQuery)
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return "", fmt.Errorf("query exceeds %d characters: %w", maxLen, domain.ErrInvalidQuery)
	}
	if injectionRegex.MatchString(s) {
		return "", fmt.Errorf("query contains markup or script: %w", domain.ErrInvalidQuery)
	}
	return s, nil
}
