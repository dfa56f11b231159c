package score

import (
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/text"
	"golang.org/x/text/cases"
)

// minKeywordLen is the rune length a claim token must exceed to become a filter keyword
const minKeywordLen = 3

// Relevance measures lexical overlap between a claim and evidence text
type Relevance struct {
	norm text.Normalizer
}

// NewRelevance creates a relevance scorer over the given normalizer
func NewRelevance(norm text.Normalizer) *Relevance {
	if norm == nil {
		norm = text.NewAnalyzer()
	}
	return &Relevance{norm: norm}
}

// Score returns the Jaccard similarity of the normalized token sets of claim and
// body. It is 0 when both sets are empty.
func (r *Relevance) Score(claim, body string) float64 {
	a := text.TokenSet(r.norm.Normalize(claim))
	b := text.TokenSet(r.norm.Normalize(body))

	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Keywords derives the filter keyword set: claim tokens longer than three runes
// followed by the extra (entity) keywords, deduplicated in order.
func Keywords(claim model.Claim, extra []string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(kw string) {
		kw = fold(strings.TrimSpace(kw))
		if kw == "" {
			return
		}
		if _, ok := seen[kw]; ok {
			return
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}

	for _, tok := range text.Tokenize(claim.Canonical) {
		if len([]rune(tok)) > minKeywordLen {
			add(tok)
		}
	}
	for _, kw := range extra {
		add(kw)
	}
	return out
}

// IsRelevant reports whether any keyword appears in the item's title and snippet.
// An empty keyword set keeps everything.
func IsRelevant(item model.EvidenceItem, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	summary := fold(item.Summary())
	for _, kw := range keywords {
		if strings.Contains(summary, kw) {
			return true
		}
	}
	return false
}

// FilterRelevant returns the items of set that pass IsRelevant, in order
func FilterRelevant(set *model.EvidenceSet, keywords []string) *model.EvidenceSet {
	return set.Filter(func(item model.EvidenceItem) bool {
		return IsRelevant(item, keywords)
	})
}

func fold(s string) string {
	return cases.Fold().String(s)
}
