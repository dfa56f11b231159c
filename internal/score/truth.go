package score

import (
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/text"
)

// NeutralTruthScore is returned when no evidence takes a side
const NeutralTruthScore = 0.5

// TruthScorer tallies supporting and refuting cues across evidence
type TruthScorer struct {
	refute  []string
	support []string
}

// NewTruthScorer creates a scorer from the configured cue lists.
// A nil config uses the defaults.
func NewTruthScorer(cfg *model.ScoringConfig) *TruthScorer {
	if cfg == nil {
		cfg = &model.DefaultConfig().Scoring
	}
	return &TruthScorer{
		refute:  compileCues(cfg.RefuteCues),
		support: compileCues(cfg.SupportCues),
	}
}

// Assess scans each item's title, snippet and full text. An item may count as
// both supporting and refuting; items matching neither are neutral.
func (s *TruthScorer) Assess(items []model.EvidenceItem) model.TruthAssessment {
	a := model.TruthAssessment{TruthScore: NeutralTruthScore}
	for _, item := range items {
		hay := padded(text.Tokenize(item.Text()))
		refutes := containsCue(hay, s.refute)
		supports := containsCue(hay, s.support)
		if refutes {
			a.Refutes++
		}
		if supports {
			a.Supports++
		}
		if !refutes && !supports {
			a.Neutral++
		}
	}
	if total := a.Supports + a.Refutes; total > 0 {
		a.TruthScore = float64(a.Refutes) / float64(total)
	}
	return a
}

// compileCues tokenizes cue phrases once so matching is on word boundaries
func compileCues(cues []string) []string {
	out := make([]string, 0, len(cues))
	for _, c := range cues {
		if toks := text.Tokenize(c); len(toks) > 0 {
			out = append(out, padded(toks))
		}
	}
	return out
}

func containsCue(hay string, cues []string) bool {
	for _, c := range cues {
		if strings.Contains(hay, c) {
			return true
		}
	}
	return false
}

func padded(tokens []string) string {
	return " " + strings.Join(tokens, " ") + " "
}
