package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/claimcheck/internal/model"
	"go.uber.org/zap/zaptest"
)

// MockProvider implements Provider for testing
type MockProvider struct {
	name     string
	response *SummarizeResponse
	err      error
	got      SummarizeRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func TestNewSummarizer_Disabled(t *testing.T) {
	s, err := NewSummarizer(Config{}, nil)
	if err != nil {
		t.Fatalf("NewSummarizer: %v", err)
	}
	if s.IsEnabled() || s.ProviderName() != "" {
		t.Error("expected a disabled summarizer")
	}

	n, err := s.Narrate(context.Background(), &model.Report{})
	if n != nil || err != nil {
		t.Errorf("Narrate() = %v, %v; want nil, nil", n, err)
	}

	var nilSummarizer *Summarizer
	if nilSummarizer.IsEnabled() {
		t.Error("nil summarizer reports enabled")
	}
}

func TestNewSummarizer_UnknownProvider(t *testing.T) {
	if _, err := NewSummarizer(Config{Provider: "carrier-pigeon"}, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := NewSummarizer(Config{Provider: "openai"}, nil); err == nil {
		t.Error("expected error for openai without key")
	}
}

func TestSummarizer_Narrate(t *testing.T) {
	report := &model.Report{
		Claim: model.NewClaim("Coffee causes cancer"),
		Result: model.VerdictResult{
			Verdict:   model.VerdictFalse,
			Citations: []model.EvidenceItem{{URL: "https://who.int/coffee"}},
		},
		Evidence: []model.EvidenceItem{
			{URL: "https://news.example/coffee"},
			{URL: "https://who.int/coffee"},
		},
	}
	provider := &MockProvider{
		name: "mock",
		response: &SummarizeResponse{
			Summary:   "The WHO finds no link.",
			CitedURLs: []string{"https://who.int/coffee"},
			Model:     "mock-1",
		},
	}

	s := NewSummarizerWithProvider(provider, zaptest.NewLogger(t))
	n, err := s.Narrate(context.Background(), report)
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}

	want := &model.Narrative{
		Provider:  "mock",
		Model:     "mock-1",
		Text:      "The WHO finds no link.",
		CitedURLs: []string{"https://who.int/coffee"},
	}
	if diff := cmp.Diff(want, n); diff != "" {
		t.Errorf("narrative mismatch (-want +got):\n%s", diff)
	}

	wantURLs := []string{"https://who.int/coffee", "https://news.example/coffee"}
	if diff := cmp.Diff(wantURLs, provider.got.EvidenceURLs); diff != "" {
		t.Errorf("allow-list mismatch (-want +got):\n%s", diff)
	}
	if report.Result.Verdict != model.VerdictFalse {
		t.Error("narrative changed the verdict")
	}
}

func TestSummarizer_ProviderError(t *testing.T) {
	s := NewSummarizerWithProvider(&MockProvider{name: "mock", err: ErrCitationLeak}, nil)
	if _, err := s.Narrate(context.Background(), &model.Report{}); !errors.Is(err, ErrCitationLeak) {
		t.Errorf("err = %v, want ErrCitationLeak", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	report := model.Report{
		Claim: model.NewClaim("Vaccines cause autism"),
		Result: model.VerdictResult{
			Verdict:     model.VerdictFalse,
			Confidence:  0.85,
			Explanation: "Retrieved evidence predominantly refutes this claim.",
			Citations:   []model.EvidenceItem{{Title: "CDC", Snippet: "no link", URL: "https://cdc.gov/x"}},
		},
		Path:       model.PathStrongSignal,
		Assessment: model.TruthAssessment{TruthScore: 0.9, Supports: 1, Refutes: 9},
		Fallacies:  []string{"conspiracy"},
	}

	prompt := BuildPrompt(report, []string{"https://cdc.gov/x"})
	for _, want := range []string{
		`Claim: "Vaccines cause autism"`,
		"Verdict: FALSE (confidence 0.85)",
		"Decided by: strong_signal",
		"- https://cdc.gov/x",
		"1 supporting, 9 refuting",
		"Framing patterns in the claim: conspiracy",
		"- CDC: no link (https://cdc.gov/x)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if !strings.Contains(BuildPrompt(model.Report{}, nil), "(No evidence URLs available)") {
		t.Error("empty allow-list not stated")
	}
}

func TestJoinURLs_Truncates(t *testing.T) {
	urls := make([]string, 25)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://example.com/%d", i)
	}
	got := joinURLs(urls)
	if !strings.Contains(got, "... and 5 more URLs") {
		t.Errorf("joinURLs did not truncate: %s", got)
	}
	if strings.Contains(got, "https://example.com/20") {
		t.Error("joinURLs printed past the limit")
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.LLMConfig{Provider: "openai", Model: "gpt-4o", Timeout: 10}, nil)
	if cfg.Timeout != 10*time.Second || cfg.MaxTokens != DefaultConfig().MaxTokens || cfg.Model != "gpt-4o" {
		t.Errorf("cfg = %+v", cfg)
	}
}
