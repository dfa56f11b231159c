package model

import (
	"strings"
	"unicode"
)

// Claim is a user-submitted factual statement and its canonical form
type Claim struct {
	Raw       string `json:"raw"`       // Text as submitted (whitespace trimmed)
	Canonical string `json:"canonical"` // Lower-cased, question prefix and edge punctuation removed
}

// questionPrefixes are stripped from the front of the canonical form, longest first
var questionPrefixes = []string{
	"is it true that",
	"is it true",
	"true or false",
	"fact check",
	"did you know that",
	"did you know",
	"verify that",
	"verify",
}

// NewClaim builds a Claim from raw input
func NewClaim(raw string) Claim {
	raw = strings.TrimSpace(raw)
	return Claim{
		Raw:       raw,
		Canonical: Canonicalize(raw),
	}
}

// IsEmpty reports whether the claim carries no usable text
func (c Claim) IsEmpty() bool {
	return c.Canonical == ""
}

// Canonicalize lower-cases text, strips a leading question prefix and trims punctuation
func Canonicalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = trimPunct(s)

	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(s, prefix) {
			rest := s[len(prefix):]
			// Only strip whole-word prefixes ("verifying" is not "verify")
			if rest == "" || !isWordRune(firstRune(rest)) {
				s = trimPunct(rest)
				break
			}
		}
	}

	return strings.Join(strings.Fields(s), " ")
}

func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
	})
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
