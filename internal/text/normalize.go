// Package text turns claims and evidence into normalised token sequences
// for lexical overlap scoring.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalizer maps free text to a canonical token sequence
type Normalizer interface {
	Normalize(text string) []string
}

// Analyzer is the default Normalizer: Unicode NFKC, case folding,
// stopword removal and light suffix stripping. It is safe for concurrent use.
type Analyzer struct {
	stopwords map[string]struct{}
	minLen    int
}

// NewAnalyzer creates an analyzer with the built-in English stopword list
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithStopwords(defaultStopwords)
}

// NewAnalyzerWithStopwords creates an analyzer with a custom stopword list
func NewAnalyzerWithStopwords(words []string) *Analyzer {
	sw := make(map[string]struct{}, len(words))
	for _, w := range words {
		sw[w] = struct{}{}
	}
	return &Analyzer{stopwords: sw, minLen: 2}
}

// Normalize tokenizes text and returns canonical, non-stopword tokens in order
func (a *Analyzer) Normalize(text string) []string {
	var out []string
	for _, tok := range Tokenize(text) {
		if len(tok) < a.minLen {
			continue
		}
		if _, stop := a.stopwords[tok]; stop {
			continue
		}
		out = append(out, Stem(tok))
	}
	return out
}

// Tokenize splits text into lower-case word tokens after Unicode normalisation.
// Apostrophes inside words are dropped so "isn't" becomes "isnt".
func Tokenize(text string) []string {
	folded := cases.Fold().String(norm.NFKC.String(text))
	folded = strings.NewReplacer("'", "", "’", "").Replace(folded)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Stem strips a small set of English inflectional suffixes.
// Tokens of four runes or fewer are returned unchanged.
func Stem(tok string) string {
	if len([]rune(tok)) <= 4 {
		return tok
	}
	switch {
	case strings.HasSuffix(tok, "ies"):
		return strings.TrimSuffix(tok, "ies") + "y"
	case strings.HasSuffix(tok, "sses"):
		return strings.TrimSuffix(tok, "es")
	case strings.HasSuffix(tok, "ing") && len(tok) > 6:
		return strings.TrimSuffix(tok, "ing")
	case strings.HasSuffix(tok, "ed") && len(tok) > 5:
		return strings.TrimSuffix(tok, "ed")
	case strings.HasSuffix(tok, "ss"), strings.HasSuffix(tok, "us"), strings.HasSuffix(tok, "is"):
		return tok
	case strings.HasSuffix(tok, "s"):
		return strings.TrimSuffix(tok, "s")
	}
	return tok
}

// TokenSet returns the distinct tokens of a sequence
func TokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// ContainsPhrase reports whether phrase occurs in text on word boundaries.
// Both sides are tokenized, so punctuation and case are ignored.
func ContainsPhrase(text, phrase string) bool {
	p := Tokenize(phrase)
	if len(p) == 0 {
		return false
	}
	hay := " " + strings.Join(Tokenize(text), " ") + " "
	return strings.Contains(hay, " "+strings.Join(p, " ")+" ")
}

var defaultStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does", "doing",
	"down", "during", "each", "few", "for", "from", "further", "had", "has", "have",
	"having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"i", "if", "in", "into", "is", "it", "its", "itself", "just", "me", "more", "most",
	"my", "myself", "nor", "now", "of", "off", "on", "once", "only", "or", "other",
	"our", "ours", "ourselves", "out", "over", "own", "same", "she", "should", "so",
	"some", "such", "than", "that", "the", "their", "theirs", "them", "themselves",
	"then", "there", "these", "they", "this", "those", "through", "to", "too",
	"under", "until", "up", "very", "was", "we", "were", "what", "when", "where",
	"which", "while", "who", "whom", "why", "will", "with", "would", "you", "your",
	"yours", "yourself", "yourselves",
}
