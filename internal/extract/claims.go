// Package extract turns fetched pages and free text into the inputs the
// engine works on: readable article text for evidence enrichment and
// individual claims from a submitted passage.
package extract

import (
	"strings"
	"unicode/utf8"
)

// MinClaimLength is the rune count a sentence must exceed to count as a claim
const MinClaimLength = 20

// SplitClaims breaks a passage into checkable claims. Sentences are split on
// terminators and newlines; short fragments are dropped. When no sentence
// qualifies, the whole trimmed passage is the single claim.
func SplitClaims(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	sentences := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '.' || r == '?' || r == '!' || r == '\n'
	})

	var claims []string
	for _, s := range sentences {
		s = strings.Join(strings.Fields(s), " ")
		if utf8.RuneCountInString(s) > MinClaimLength {
			claims = append(claims, s)
		}
	}
	claims = dedupeClaims(claims)

	if len(claims) == 0 {
		return []string{trimmed}
	}
	return claims
}

// dedupeClaims removes repeated claims, keeping the first occurrence
func dedupeClaims(claims []string) []string {
	seen := make(map[string]bool, len(claims))
	var unique []string

	for _, claim := range claims {
		key := strings.ToLower(claim)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
