// Package score computes the evidence signals a verdict is decided on:
// relevance, truth cues, agreement, credibility and framing-based confidence.
package score

import (
	"github.com/ppiankov/claimcheck/internal/model"
)

// NeutralAgreement is the cross-source agreement when there is no evidence
const NeutralAgreement = 0.5

// Signals are the measurements derived from a claim and its filtered evidence
type Signals struct {
	Assessment     model.TruthAssessment
	Agreement      float64  // Share of items taking a side
	AvgCredibility float64  // Mean credibility, 0 without evidence
	Sentiment      float64  // Claim polarity in [-1, 1]
	Fallacies      []string // Fallacy patterns found in the claim
	Calibrated     float64  // Calibrator confidence
	Evidence       int
}

// Scorer calculates Signals. It holds only immutable configuration and is
// safe for concurrent use.
type Scorer struct {
	truth     *TruthScorer
	sentiment *Sentiment
	fallacies *Fallacies
}

// NewScorer creates a scorer from the scoring configuration
func NewScorer(cfg *model.ScoringConfig) *Scorer {
	return &Scorer{
		truth:     NewTruthScorer(cfg),
		sentiment: NewSentiment(),
		fallacies: NewFallacies(),
	}
}

// Calculate scores the claim against its evidence
func (s *Scorer) Calculate(claim model.Claim, items []model.EvidenceItem) Signals {
	// 1. Lexical truth cues
	assessment := s.truth.Assess(items)

	// 2. Claim framing
	sentiment := s.sentiment.Polarity(claim.Raw)
	fallacies := s.fallacies.Detect(claim.Raw)

	return Signals{
		Assessment:     assessment,
		Agreement:      Agreement(assessment),
		AvgCredibility: AverageCredibility(items),
		Sentiment:      sentiment,
		Fallacies:      fallacies,
		Calibrated:     Calibrate(sentiment, len(fallacies), len(items) > 0),
		Evidence:       len(items),
	}
}

// Agreement is (supports+refutes)/(supports+refutes+neutral), or
// NeutralAgreement when the assessment counted nothing
func Agreement(a model.TruthAssessment) float64 {
	decisive := a.Supports + a.Refutes
	total := decisive + a.Neutral
	if total == 0 {
		return NeutralAgreement
	}
	return float64(decisive) / float64(total)
}

// AverageCredibility returns the mean credibility of the items, 0 when empty
func AverageCredibility(items []model.EvidenceItem) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0.0
	for _, item := range items {
		sum += item.Credibility
	}
	return sum / float64(len(items))
}
