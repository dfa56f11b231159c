package facts

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/text"
)

// Confidence is the fixed confidence of every fact-layer verdict
const Confidence = 0.99

// Rule family names, used as the prefix of Match.Rule
const (
	FamilyEntity    = "entity"
	FamilyCategory  = "category"
	FamilyTautology = "tautology"
)

// negationSet holds the tokens that invert a rule verdict
var negationSet = map[string]bool{
	"not": true, "no": true, "never": true, "non": true, "isnt": true,
	"arent": true, "wasnt": true, "werent": true, "doesnt": true, "dont": true,
	"didnt": true, "cannot": true, "cant": true, "neither": true,
}

// biographicalKeywords mark claims about a person's identity or role
var biographicalKeywords = []string{
	"nationality", "citizen", "citizenship", "born", "birthplace",
	"age", "years old", "gender", "president", "prime minister",
	"leader", "occupation", "scientist", "actor", "singer",
}

// Match describes the rule that decided a claim
type Match struct {
	Rule        string        // "<family>:<rule subject>"
	Verdict     model.Verdict
	Explanation string
	Negated     bool
}

// Layer evaluates claims against a rule table. It is read-only after construction.
type Layer struct {
	table *Table
}

// NewLayer creates a layer over the given table; nil uses the built-in table
func NewLayer(table *Table) *Layer {
	if table == nil {
		table = Default()
	}
	return &Layer{table: table}
}

// Table returns the rule table the layer evaluates
func (l *Layer) Table() *Table {
	return l.table
}

// Check returns a terminal verdict when a rule matches the claim
func (l *Layer) Check(claim model.Claim) (model.VerdictResult, Match, bool) {
	m, ok := l.Match(claim)
	if !ok {
		return model.VerdictResult{}, Match{}, false
	}
	return model.VerdictResult{
		Verdict:     m.Verdict,
		Confidence:  Confidence,
		Explanation: m.Explanation,
		Citations:   []model.EvidenceItem{},
	}, m, true
}

// Match finds the first matching rule. Families are checked entity, category,
// tautology; within a family the first rule in table order wins. Words are
// compared after stemming, so "chickens" matches a "chicken" rule.
//
// A negation inverts the verdict only when it sits between the rule's anchor
// (entity trigger, category member, tautology subject) and its target
// (attribute value, category, predicate). "Fire is hot, not cold" keeps its
// verdict; "Fire is not hot" is inverted.
func (l *Layer) Match(claim model.Claim) (Match, bool) {
	toks := stemmed(claim.Canonical)
	if len(toks) == 0 {
		return Match{}, false
	}

	m, ok := l.matchEntity(toks)
	if !ok {
		m, ok = l.matchCategory(toks)
	}
	if !ok {
		m, ok = l.matchTautology(toks)
	}
	return m, ok
}

func (l *Layer) matchEntity(toks []string) (Match, bool) {
	for _, e := range l.table.Entities {
		var anchors []span
		for _, trig := range e.Triggers {
			anchors = append(anchors, findPhrase(toks, trig)...)
		}
		if len(anchors) == 0 {
			continue
		}
		rule := FamilyEntity + ":" + e.Name
		name, correct := e.Name, lower(e.Correct)

		for _, wrong := range e.Wrong {
			targets := findPhrase(toks, wrong)
			if len(targets) == 0 {
				continue
			}
			if negatedBetween(toks, anchors, targets) {
				return Match{
					Rule:        rule,
					Verdict:     model.VerdictTrue,
					Explanation: fmt.Sprintf("%s is not %s; %s is %s.", name, lower(wrong), name, correct),
					Negated:     true,
				}, true
			}
			return Match{
				Rule:        rule,
				Verdict:     model.VerdictFalse,
				Explanation: fmt.Sprintf("%s is %s, not %s.", name, correct, lower(wrong)),
			}, true
		}

		targets := findPhrase(toks, e.Correct)
		if len(targets) == 0 {
			continue
		}
		if negatedBetween(toks, anchors, targets) {
			return Match{
				Rule:        rule,
				Verdict:     model.VerdictFalse,
				Explanation: fmt.Sprintf("%s is %s; the claim denies it.", name, correct),
				Negated:     true,
			}, true
		}
		return Match{
			Rule:        rule,
			Verdict:     model.VerdictTrue,
			Explanation: fmt.Sprintf("%s is %s.", name, correct),
		}, true
	}
	return Match{}, false
}

func (l *Layer) matchCategory(toks []string) (Match, bool) {
	for _, cat := range l.table.Categories {
		targets := findPhrase(toks, cat.Category)
		if len(targets) == 0 {
			continue
		}
		rule := FamilyCategory + ":" + cat.Category
		for _, member := range cat.Exclusions {
			anchors := findPhrase(toks, member)
			if len(anchors) == 0 {
				continue
			}
			fact := fmt.Sprintf("Known fact: %s is not %s", lower(member), lower(cat.Category))
			if negatedBetween(toks, anchors, targets) {
				return Match{
					Rule:        rule,
					Verdict:     model.VerdictTrue,
					Explanation: fact + ", as the claim states.",
					Negated:     true,
				}, true
			}
			return Match{
				Rule:        rule,
				Verdict:     model.VerdictFalse,
				Explanation: fact + ".",
			}, true
		}
	}
	return Match{}, false
}

func (l *Layer) matchTautology(toks []string) (Match, bool) {
	for _, r := range l.table.Tautologies {
		anchors := findPhrase(toks, r.Subject)
		targets := findPhrase(toks, r.Predicate)
		if len(anchors) == 0 || len(targets) == 0 {
			continue
		}
		rule := FamilyTautology + ":" + r.Subject
		fact := fmt.Sprintf("Known fact: %s is %s", lower(r.Subject), lower(r.Predicate))
		if negatedBetween(toks, anchors, targets) {
			return Match{
				Rule:        rule,
				Verdict:     model.VerdictFalse,
				Explanation: fact + "; the claim denies it.",
				Negated:     true,
			}, true
		}
		return Match{
			Rule:        rule,
			Verdict:     model.VerdictTrue,
			Explanation: fact + ".",
		}, true
	}
	return Match{}, false
}

// Keywords returns the relevance keywords of every entity the claim mentions
func (l *Layer) Keywords(claim model.Claim) []string {
	toks := stemmed(claim.Canonical)
	var out []string
	for _, e := range l.table.Entities {
		if containsAny(toks, e.Triggers) {
			out = append(out, e.Keywords...)
		}
	}
	return out
}

// IsBiographical reports whether the claim is about a person's identity or role
func IsBiographical(claim model.Claim) bool {
	return containsAny(stemmed(claim.Canonical), biographicalKeywords)
}

// span is a half-open token range [start, end)
type span struct {
	start, end int
}

// negatedBetween reports whether a negation token lies strictly between the
// closest anchor/target pair, in either order.
func negatedBetween(toks []string, anchors, targets []span) bool {
	best, found := span{}, false
	for _, a := range anchors {
		for _, t := range targets {
			gap := span{start: a.end, end: t.start}
			if t.end <= a.start {
				gap = span{start: t.end, end: a.start}
			}
			if gap.end < gap.start {
				// overlapping phrases leave nothing between them
				gap.end = gap.start
			}
			if !found || gap.end-gap.start < best.end-best.start {
				best, found = gap, true
			}
		}
	}
	for _, tok := range toks[best.start:best.end] {
		if negationSet[tok] {
			return true
		}
	}
	return false
}

// findPhrase returns every position of phrase in toks, compared stem by stem
func findPhrase(toks []string, phrase string) []span {
	want := stemmed(phrase)
	if len(want) == 0 {
		return nil
	}
	var out []span
	for i := 0; i+len(want) <= len(toks); i++ {
		if slices.Equal(toks[i:i+len(want)], want) {
			out = append(out, span{start: i, end: i + len(want)})
		}
	}
	return out
}

func containsAny(toks []string, phrases []string) bool {
	for _, p := range phrases {
		if len(findPhrase(toks, p)) > 0 {
			return true
		}
	}
	return false
}

func stemmed(s string) []string {
	toks := text.Tokenize(s)
	for i, tok := range toks {
		toks[i] = text.Stem(tok)
	}
	return toks
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
