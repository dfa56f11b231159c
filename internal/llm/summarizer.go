package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/claimcheck/internal/logging"
	"github.com/ppiankov/claimcheck/internal/model"
	"go.uber.org/zap"
)

// Summarizer turns finished reports into narratives. A summarizer without a
// provider is disabled and returns no narrative.
type Summarizer struct {
	provider Provider
	logger   *zap.Logger
}

// NewSummarizer creates a summarizer for the configured provider
func NewSummarizer(config Config, logger *zap.Logger) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, logger: logging.OrNop(logger)}, nil
}

// NewSummarizerWithProvider wraps an existing provider
func NewSummarizerWithProvider(provider Provider, logger *zap.Logger) *Summarizer {
	return &Summarizer{provider: provider, logger: logging.OrNop(logger)}
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the provider name, empty when disabled
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// Narrate writes a narrative for report. It returns nil, nil when disabled.
func (s *Summarizer) Narrate(ctx context.Context, report *model.Report) (*model.Narrative, error) {
	if !s.IsEnabled() || report == nil {
		return nil, nil
	}

	urls := EvidenceURLs(*report)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:       *report,
		EvidenceURLs: urls,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	s.logger.Debug("narrative written",
		zap.String("provider", s.provider.Name()),
		zap.String("model", resp.Model),
		zap.Int("tokens", resp.TokensUsed),
		zap.Int("cited", len(resp.CitedURLs)))

	return &model.Narrative{
		Provider:  s.provider.Name(),
		Model:     resp.Model,
		Text:      resp.Summary,
		CitedURLs: resp.CitedURLs,
	}, nil
}
