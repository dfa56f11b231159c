// Package pipeline evaluates claims end to end: fact layer, query expansion,
// evidence retrieval, scoring and verdict reconciliation.
package pipeline

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/claimcheck/internal/credibility"
	"github.com/ppiankov/claimcheck/internal/facts"
	"github.com/ppiankov/claimcheck/internal/logging"
	"github.com/ppiankov/claimcheck/internal/metrics"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/query"
	"github.com/ppiankov/claimcheck/internal/retrieve"
	"github.com/ppiankov/claimcheck/internal/score"
	"github.com/ppiankov/claimcheck/internal/verdict"
	"go.uber.org/zap"
)

// ErrEmptyClaim is returned for claims with no text
var ErrEmptyClaim = errors.New("empty claim")

// Narrator writes an optional prose summary of a finished report
type Narrator interface {
	Narrate(ctx context.Context, report *model.Report) (*model.Narrative, error)
}

// Engine evaluates claims. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	facts      *facts.Layer
	retriever  *retrieve.Retriever
	classifier *credibility.Classifier
	relevance  *score.Relevance
	scorer     *score.Scorer
	reconciler *verdict.Reconciler
	narrator   Narrator
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithNarrator attaches a narrative writer; its output never changes the verdict
func WithNarrator(n Narrator) Option {
	return func(e *Engine) { e.narrator = n }
}

// WithLogger sets the engine's logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(logger) }
}

// WithClock overrides the report timestamp source
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine from the credibility and scoring configuration,
// a fact layer and a retriever
func NewEngine(cfg *model.Config, layer *facts.Layer, retriever *retrieve.Retriever, opts ...Option) *Engine {
	e := &Engine{
		facts:      layer,
		retriever:  retriever,
		classifier: credibility.NewClassifier(&cfg.Credibility),
		relevance:  score.NewRelevance(nil),
		scorer:     score.NewScorer(&cfg.Scoring),
		reconciler: verdict.NewReconciler(cfg.Scoring.MaxCitations),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	if e.facts == nil {
		e.facts = facts.NewLayer(nil)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateClaim returns the verdict for one claim
func (e *Engine) EvaluateClaim(ctx context.Context, text string) (model.VerdictResult, error) {
	report, err := e.Evaluate(ctx, text)
	if err != nil {
		return model.VerdictResult{}, err
	}
	return report.Result, nil
}

// Evaluate returns the verdict for one claim with the diagnostics that
// produced it. Only an empty claim is an error; retrieval problems degrade
// the evidence, never the call.
func (e *Engine) Evaluate(ctx context.Context, text string) (*model.Report, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyClaim
	}
	start := time.Now()
	claim := model.NewClaim(text)

	report := &model.Report{
		ID:           uuid.NewString(),
		Claim:        claim,
		Biographical: facts.IsBiographical(claim),
		EvaluatedAt:  e.now().UTC(),
	}

	if claim.IsEmpty() {
		e.reject(report)
	} else if fact, m, ok := e.facts.Check(claim); ok {
		report.Rule = m.Rule
		e.decide(report, &fact, nil)
	} else {
		e.decide(report, nil, e.gather(ctx, claim, report))
	}

	if e.narrator != nil {
		n, err := e.narrator.Narrate(ctx, report)
		if err != nil {
			e.logger.Warn("narrative failed", zap.String("id", report.ID), zap.Error(err))
		} else {
			report.Narrative = n
		}
	}

	metrics.Verdicts.WithLabelValues(report.Result.Verdict.String(), string(report.Path)).Inc()
	metrics.EvaluationDuration.Observe(time.Since(start).Seconds())

	e.logger.Info("claim evaluated",
		zap.String("id", report.ID),
		zap.String("claim", claim.Canonical),
		zap.Stringer("verdict", report.Result.Verdict),
		zap.Float64("confidence", report.Result.Confidence),
		zap.String("path", string(report.Path)),
		zap.String("rule", report.Rule),
		zap.Int("evidence", len(report.Evidence)),
		zap.Duration("elapsed", time.Since(start)))

	return report, nil
}

// gather retrieves and filters evidence for a claim the fact layer did not decide
func (e *Engine) gather(ctx context.Context, claim model.Claim, report *model.Report) []model.EvidenceItem {
	res := e.retriever.Retrieve(ctx, query.Expand(claim.Canonical), e.toItem(claim))

	keywords := score.Keywords(claim, e.facts.Keywords(claim))
	relevant := score.FilterRelevant(res.Evidence, keywords).Items()

	report.Retrieval = res.Stats
	report.Retrieval.Relevant = len(relevant)
	metrics.EvidenceItems.Observe(float64(len(relevant)))

	e.logger.Debug("evidence gathered",
		zap.String("claim", claim.Canonical),
		zap.Int("calls", res.Stats.Calls),
		zap.Int("failed", res.Stats.Failed),
		zap.Int("unique", res.Stats.Unique),
		zap.Int("relevant", len(relevant)),
		zap.Strings("keywords", keywords))

	return relevant
}

func (e *Engine) toItem(claim model.Claim) retrieve.ItemFunc {
	return func(source model.SourceID, hit model.Hit) model.EvidenceItem {
		item := model.EvidenceItem{
			Source:  source,
			Title:   hit.Title,
			Snippet: hit.Snippet,
			URL:     hit.URL,
		}
		item.Relevance = e.relevance.Score(claim.Canonical, item.Summary())
		item.Credibility = e.classifier.Score(item.URL)
		return item
	}
}

// decide scores the evidence and reconciles it with the fact-layer result, if any
func (e *Engine) decide(report *model.Report, fact *model.VerdictResult, evidence []model.EvidenceItem) {
	sig := e.scorer.Calculate(report.Claim, evidence)
	d := e.reconciler.Reconcile(fact, sig, evidence)

	report.Result = d.Result
	report.Path = d.Path
	report.Assessment = sig.Assessment
	report.Agreement = sig.Agreement
	report.AvgCredibility = sig.AvgCredibility
	report.Sentiment = sig.Sentiment
	report.Fallacies = sig.Fallacies
	report.Calibrated = sig.Calibrated
	report.Evidence = byRelevance(evidence)
}

// reject answers a claim whose text canonicalises to nothing
func (e *Engine) reject(report *model.Report) {
	sig := e.scorer.Calculate(report.Claim, nil)
	report.Result = model.VerdictResult{
		Verdict:     model.VerdictNeedsVerification,
		Confidence:  model.ClampConfidence(sig.Calibrated),
		Explanation: verdict.ExplainNeeds,
		Citations:   []model.EvidenceItem{},
	}
	report.Path = model.PathRejected
	report.Assessment = sig.Assessment
	report.Agreement = sig.Agreement
	report.Calibrated = sig.Calibrated
}

// byRelevance returns a copy of items ordered by relevance, ties in arrival order
func byRelevance(items []model.EvidenceItem) []model.EvidenceItem {
	out := make([]model.EvidenceItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})
	return out
}
