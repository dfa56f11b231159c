package score

import (
	"math"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Calibrator weights
const (
	calibrationBase       = 0.5
	sentimentWeight       = 0.25
	maxSentimentPenalty   = 0.4
	fallacyWeight         = 0.15
	maxFallacyPenalty     = 0.6
	evidencePresenceBonus = 0.2
)

// Calibrate turns claim framing and evidence presence into a confidence.
// Strong sentiment and fallacy patterns lower it; any evidence raises it.
// The result is always within [model.MinConfidence, model.MaxConfidence].
func Calibrate(sentiment float64, fallacies int, hasEvidence bool) float64 {
	c := calibrationBase
	c -= math.Min(maxSentimentPenalty, math.Abs(sentiment)*sentimentWeight)
	if fallacies > 0 {
		c -= math.Min(maxFallacyPenalty, float64(fallacies)*fallacyWeight)
	}
	if hasEvidence {
		c += evidencePresenceBonus
	}
	return model.ClampConfidence(c)
}
