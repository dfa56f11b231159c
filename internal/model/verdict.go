package model

import "fmt"

// Verdict is the final classification of a claim
type Verdict int

const (
	VerdictNeedsVerification Verdict = iota
	VerdictTrue
	VerdictFalse
)

func (v Verdict) String() string {
	switch v {
	case VerdictTrue:
		return "TRUE"
	case VerdictFalse:
		return "FALSE"
	default:
		return "NEEDS_VERIFICATION"
	}
}

// Valid reports whether v is one of the three defined verdicts
func (v Verdict) Valid() bool {
	return v == VerdictTrue || v == VerdictFalse || v == VerdictNeedsVerification
}

// Decisive reports whether the verdict takes a side
func (v Verdict) Decisive() bool {
	return v == VerdictTrue || v == VerdictFalse
}

// Negate flips TRUE and FALSE, leaving NEEDS_VERIFICATION as is
func (v Verdict) Negate() Verdict {
	switch v {
	case VerdictTrue:
		return VerdictFalse
	case VerdictFalse:
		return VerdictTrue
	default:
		return v
	}
}

// MarshalText encodes the verdict as its string form
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses "TRUE", "FALSE" or "NEEDS_VERIFICATION"
func (v *Verdict) UnmarshalText(b []byte) error {
	parsed, err := ParseVerdict(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVerdict parses the string form of a verdict
func ParseVerdict(s string) (Verdict, error) {
	switch s {
	case "TRUE":
		return VerdictTrue, nil
	case "FALSE":
		return VerdictFalse, nil
	case "NEEDS_VERIFICATION", "NEEDS VERIFICATION":
		return VerdictNeedsVerification, nil
	default:
		return VerdictNeedsVerification, fmt.Errorf("unknown verdict %q", s)
	}
}

// Confidence bounds: a verdict is never fully certain nor fully uncertain
const (
	MinConfidence = 0.01
	MaxConfidence = 0.99
)

// ClampConfidence restricts c to [MinConfidence, MaxConfidence]
func ClampConfidence(c float64) float64 {
	if c != c { // NaN
		return MinConfidence
	}
	if c < MinConfidence {
		return MinConfidence
	}
	if c > MaxConfidence {
		return MaxConfidence
	}
	return c
}

// TruthAssessment is the lexical-cue tally over an evidence set.
// TruthScore is 0 for fully supported and 1 for fully refuted.
type TruthAssessment struct {
	TruthScore float64 `json:"truth_score"`
	Supports   int     `json:"supports"`
	Refutes    int     `json:"refutes"`
	Neutral    int     `json:"neutral"`
}

// VerdictResult is the terminal output for one claim
type VerdictResult struct {
	Verdict     Verdict        `json:"verdict"`
	Confidence  float64        `json:"confidence"`
	Explanation string         `json:"explanation"`
	Citations   []EvidenceItem `json:"citations"`
}
