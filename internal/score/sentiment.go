package score

import "github.com/ppiankov/claimcheck/internal/text"

// Sentiment estimates the polarity of claim wording in [-1, 1] from a small
// opinion lexicon. Emotive framing is a signal of rhetoric rather than fact.
type Sentiment struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

// NewSentiment creates an analyzer with the built-in lexicon
func NewSentiment() *Sentiment {
	return &Sentiment{
		positive: text.TokenSet(positiveWords),
		negative: text.TokenSet(negativeWords),
	}
}

// Polarity returns (pos-neg)/(pos+neg) over lexicon hits, or 0 when none hit
func (s *Sentiment) Polarity(claim string) float64 {
	pos, neg := 0, 0
	for _, tok := range text.Tokenize(claim) {
		if _, ok := s.positive[tok]; ok {
			pos++
		}
		if _, ok := s.negative[tok]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

var positiveWords = []string{
	"amazing", "awesome", "beautiful", "best", "brilliant", "excellent",
	"fantastic", "good", "great", "happy", "incredible", "love", "loves",
	"miracle", "miraculous", "perfect", "safe", "superb", "wonderful",
	"healthy", "cure", "cures", "genius", "heroic", "magnificent",
}

var negativeWords = []string{
	"awful", "bad", "corrupt", "dangerous", "deadly", "disaster",
	"disgusting", "evil", "horrible", "terrible", "toxic", "worst",
	"hate", "hates", "poison", "poisonous", "scary", "shocking",
	"outrageous", "criminal", "lies", "liar", "kill", "kills", "destroy",
	"destroys", "catastrophic", "pathetic",
}
