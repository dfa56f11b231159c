// Package verdict reconciles the fact layer, the evidence truth score and
// cross-source agreement into the final verdict.
package verdict

import (
	"math"
	"sort"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/score"
)

// Thresholds
const (
	// Evidence verdict from the truth score (0 supported, 1 refuted)
	refutedAbove   = 0.6
	supportedBelow = 0.4

	// Strong signal: decisive evidence verdict this confident, or an extreme truth score
	strongConfidence = 0.80
	strongRefuted    = 0.90
	strongSupported  = 0.10

	// Non-strong branch, on support-oriented values
	decisiveHigh = 0.70
	decisiveLow  = 0.30

	defaultMaxCitations = 5
)

// Fixed explanations per verdict
const (
	ExplainTrue  = "Retrieved evidence predominantly supports this claim."
	ExplainFalse = "Retrieved evidence predominantly refutes this claim."
	ExplainNeeds = "Evidence is insufficient or conflicting; this claim needs further verification."
)

// Decision is a reconciled result and the branch that produced it
type Decision struct {
	Result model.VerdictResult
	Path   model.DecisionPath
}

// Reconciler decides the final verdict. It is immutable and safe for concurrent use.
type Reconciler struct {
	maxCitations int
}

// NewReconciler creates a reconciler citing at most maxCitations items
// (5 when non-positive)
func NewReconciler(maxCitations int) *Reconciler {
	if maxCitations <= 0 {
		maxCitations = defaultMaxCitations
	}
	return &Reconciler{maxCitations: maxCitations}
}

// Reconcile returns fact verbatim when non-nil. Otherwise it derives the
// evidence verdict and lets a strong signal override agreement, falling back
// to whichever of agreement and truth score is more decisive.
func (r *Reconciler) Reconcile(fact *model.VerdictResult, sig score.Signals, evidence []model.EvidenceItem) Decision {
	if fact != nil {
		return Decision{Result: *fact, Path: model.PathFactLayer}
	}

	ts := sig.Assessment.TruthScore
	evVerdict := EvidenceVerdict(ts)
	evConfidence := EvidenceConfidence(sig.Calibrated, ts)

	var v model.Verdict
	var conf float64
	path := model.PathReconciled

	if IsStrong(evVerdict, evConfidence, ts) {
		v, conf = evVerdict, evConfidence
		path = model.PathStrongSignal
	} else {
		v = moreDecisive(sig)
		conf = blendedConfidence(sig)
	}

	return Decision{
		Result: model.VerdictResult{
			Verdict:     v,
			Confidence:  model.ClampConfidence(conf),
			Explanation: Explain(v),
			Citations:   r.Citations(evidence),
		},
		Path: path,
	}
}

// EvidenceVerdict maps a truth score to FALSE above 0.6, TRUE below 0.4
func EvidenceVerdict(truthScore float64) model.Verdict {
	switch {
	case truthScore > refutedAbove:
		return model.VerdictFalse
	case truthScore < supportedBelow:
		return model.VerdictTrue
	default:
		return model.VerdictNeedsVerification
	}
}

// EvidenceConfidence is the confidence of the evidence verdict: the mean of
// the calibrator output and how far the truth score sits from neutral
func EvidenceConfidence(calibrated, truthScore float64) float64 {
	return model.ClampConfidence(0.5*calibrated + 0.5*decisiveness(truthScore))
}

// IsStrong reports whether the evidence verdict overrides cross-source agreement
func IsStrong(v model.Verdict, confidence, truthScore float64) bool {
	return (v.Decisive() && confidence >= strongConfidence) ||
		truthScore >= strongRefuted ||
		truthScore <= strongSupported
}

// moreDecisive picks the verdict from agreement or support, whichever is
// further from 0.5. Agreement carries no direction, so a high agreement takes
// its direction from the majority stance.
func moreDecisive(sig score.Signals) model.Verdict {
	support := 1 - sig.Assessment.TruthScore
	agreement := sig.Agreement

	if math.Abs(agreement-0.5) > math.Abs(support-0.5) {
		if agreement < decisiveHigh {
			return model.VerdictNeedsVerification
		}
		switch a := sig.Assessment; {
		case a.Supports > a.Refutes:
			return model.VerdictTrue
		case a.Refutes > a.Supports:
			return model.VerdictFalse
		default:
			return model.VerdictNeedsVerification
		}
	}

	switch {
	case support >= decisiveHigh:
		return model.VerdictTrue
	case support <= decisiveLow:
		return model.VerdictFalse
	default:
		return model.VerdictNeedsVerification
	}
}

func blendedConfidence(sig score.Signals) float64 {
	evidence := math.Max(0.7*math.Max(decisiveness(sig.Assessment.TruthScore), sig.Agreement), 0.5*sig.AvgCredibility)
	return model.ClampConfidence((sig.Calibrated + evidence) / 2)
}

// decisiveness maps a truth score to [0,1]: 0 at neutral, 1 at either extreme
func decisiveness(truthScore float64) float64 {
	return math.Abs(truthScore-0.5) * 2
}

// Explain returns the fixed explanation for a verdict
func Explain(v model.Verdict) string {
	switch v {
	case model.VerdictTrue:
		return ExplainTrue
	case model.VerdictFalse:
		return ExplainFalse
	default:
		return ExplainNeeds
	}
}

// Citations returns up to maxCitations items, highest credibility first.
// Ties keep arrival order.
func (r *Reconciler) Citations(evidence []model.EvidenceItem) []model.EvidenceItem {
	sorted := make([]model.EvidenceItem, len(evidence))
	copy(sorted, evidence)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Credibility > sorted[j].Credibility
	})
	if len(sorted) > r.maxCitations {
		sorted = sorted[:r.maxCitations]
	}
	return sorted
}
