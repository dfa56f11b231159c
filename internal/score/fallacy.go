package score

import (
	"regexp"
	"strings"
)

type fallacyPattern struct {
	name string
	re   *regexp.Regexp
}

// fallacyPatterns are matched case-insensitively against the claim text
var fallacyPatterns = []fallacyPattern{
	{"ad_hominem", regexp.MustCompile(`(?i)\b(idiots?|stupid|morons?|fools?|liars?|clowns?)\b`)},
	{"bandwagon", regexp.MustCompile(`(?i)\b(everyone|everybody|most people|millions of people) (knows?|agrees?|believes?|says?)\b`)},
	{"appeal_to_authority", regexp.MustCompile(`(?i)\b(all|every) (experts?|scientists?|doctors?) (says?|agrees?)\b`)},
	{"conspiracy", regexp.MustCompile(`(?i)\b(they don'?t want you to know|cover[- ]?ups?|wake up|sheeple|mainstream media (lies|hides|won'?t))\b`)},
	{"absolute_claim", regexp.MustCompile(`(?i)\b(always|everyone|nobody|guaranteed|undeniabl[ey]|100 ?%)`)},
	{"false_dilemma", regexp.MustCompile(`(?i)\b(either\b.+\bor|only two (options|choices))\b`)},
	{"slippery_slope", regexp.MustCompile(`(?i)\b(will inevitably lead to|next thing you know|slippery slope)\b`)},
	{"appeal_to_emotion", regexp.MustCompile(`(?i)\b(you won'?t believe|shocking truth|terrifying|think of the children)\b`)},
}

// Fallacies detects rhetorical fallacy patterns in claim wording
type Fallacies struct {
	patterns []fallacyPattern
}

// NewFallacies creates a detector with the built-in patterns
func NewFallacies() *Fallacies {
	return &Fallacies{patterns: fallacyPatterns}
}

// Detect returns the names of the distinct patterns that match the claim, in
// pattern order
func (f *Fallacies) Detect(claim string) []string {
	claim = strings.ReplaceAll(claim, "’", "'")
	var out []string
	for _, p := range f.patterns {
		if p.re.MatchString(claim) {
			out = append(out, p.name)
		}
	}
	return out
}
