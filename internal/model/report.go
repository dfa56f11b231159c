package model

import "time"

// DecisionPath records which branch of the reconciler produced the verdict
type DecisionPath string

const (
	PathFactLayer    DecisionPath = "fact_layer"    // Hand-authored rule matched
	PathStrongSignal DecisionPath = "strong_signal" // Evidence verdict overrode agreement
	PathReconciled   DecisionPath = "reconciled"    // Agreement and truth score combined
	PathRejected     DecisionPath = "rejected"      // Claim had no usable text
)

// Report is a VerdictResult plus the diagnostics that produced it
type Report struct {
	ID           string        `json:"id,omitempty"`
	Claim        Claim         `json:"claim"`
	Result       VerdictResult `json:"result"`
	Path         DecisionPath  `json:"path"`
	Rule         string        `json:"rule,omitempty"` // Fact-layer rule that matched
	Biographical bool          `json:"biographical"`
	EvaluatedAt  time.Time     `json:"evaluated_at"`

	Assessment     TruthAssessment `json:"assessment"`
	Agreement      float64         `json:"cross_source_agreement"`
	AvgCredibility float64         `json:"avg_credibility"`
	Sentiment      float64         `json:"sentiment"`
	Fallacies      []string        `json:"fallacies,omitempty"`
	Calibrated     float64         `json:"calibrated_confidence"`

	Retrieval RetrievalStats `json:"retrieval"`
	Evidence  []EvidenceItem `json:"evidence,omitempty"` // Filtered evidence that was scored

	Narrative *Narrative `json:"narrative,omitempty"` // Optional LLM text, never affects the verdict
}

// RetrievalStats summarises the retrieval fan-out for a claim
type RetrievalStats struct {
	Queries   int `json:"queries"`
	Calls     int `json:"calls"`   // Calls attempted
	Failed    int `json:"failed"`  // Calls that errored or timed out
	Skipped   int `json:"skipped"` // Calls cancelled by the request or a full evidence set
	CacheHits int `json:"cache_hits"`
	Hits      int `json:"hits"`     // Raw hits across calls
	Unique    int `json:"unique"`   // Items after URL dedup and cap
	Enriched  int `json:"enriched"` // Items that received full text
	Relevant  int `json:"relevant"` // Items kept by the keyword filter
}

// Narrative is an optional LLM-written summary of a report
type Narrative struct {
	Provider  string   `json:"provider"`
	Model     string   `json:"model"`
	Text      string   `json:"text"`
	CitedURLs []string `json:"cited_urls,omitempty"`
}
