// Package llm writes an optional narrative over a finished claim report.
// The narrative is produced after the verdict and never changes it; it may
// only cite URLs that are already in the report's evidence.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// ErrCitationLeak is returned when a narrative cites a URL outside the evidence allow-list
var ErrCitationLeak = errors.New("narrative cites a URL outside the evidence")

// maxPromptURLs bounds the allow-list printed into the prompt
const maxPromptURLs = 20

// Provider is an LLM backend able to summarize a report
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative under the strict evidence rules
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)
}

// SummarizeRequest is the input for one narrative
type SummarizeRequest struct {
	Report model.Report

	// EvidenceURLs is the allow-list of URLs the narrative may cite
	EvidenceURLs []string

	// Prompt overrides BuildPrompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// SummarizeResponse is a narrative and what it cost
type SummarizeResponse struct {
	Summary    string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama" or "" (disabled)
	Provider string

	Model     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int

	// HTTPClient carries the proxy settings; nil uses the library default
	HTTPClient *http.Client
}

// DefaultConfig returns a disabled configuration
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		MaxTokens: 600,
	}
}

// ConfigFromModel converts model.LLMConfig to Config
func ConfigFromModel(m model.LLMConfig, client *http.Client) Config {
	cfg := DefaultConfig()
	cfg.Provider = m.Provider
	cfg.Model = m.Model
	cfg.APIKey = m.APIKey
	cfg.BaseURL = m.BaseURL
	cfg.HTTPClient = client
	if m.Timeout > 0 {
		cfg.Timeout = time.Duration(m.Timeout) * time.Second
	}
	if m.MaxTokens > 0 {
		cfg.MaxTokens = m.MaxTokens
	}
	return cfg
}

// EvidenceURLs returns the URLs of the report's evidence, citations first
func EvidenceURLs(report model.Report) []string {
	seen := make(map[string]bool)
	var urls []string
	add := func(items []model.EvidenceItem) {
		for _, item := range items {
			if item.URL != "" && !seen[item.URL] {
				seen[item.URL] = true
				urls = append(urls, item.URL)
			}
		}
	}
	add(report.Result.Citations)
	add(report.Evidence)
	return urls
}

// BuildPrompt constructs the default narrative prompt
func BuildPrompt(report model.Report, evidenceURLs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are explaining the result of an automated fact check. The verdict below is final; do not contradict, soften or re-evaluate it.

CRITICAL RULES:
1. You MUST ONLY cite URLs from this allowed list:
%s

2. DO NOT cite or mention any other source.
3. If evidence is thin, say so explicitly.
4. Describe what the retrieved evidence says, not your own knowledge.

Claim: %q
Verdict: %s (confidence %.2f)
Decided by: %s
Explanation: %s

Signals:
- Truth score: %.2f (%d supporting, %d refuting, %d neutral)
- Cross-source agreement: %.2f
- Average source credibility: %.2f
`, joinURLs(evidenceURLs), report.Claim.Raw, report.Result.Verdict, report.Result.Confidence,
		report.Path, report.Result.Explanation,
		report.Assessment.TruthScore, report.Assessment.Supports, report.Assessment.Refutes, report.Assessment.Neutral,
		report.Agreement, report.AvgCredibility)

	if len(report.Fallacies) > 0 {
		fmt.Fprintf(&b, "- Framing patterns in the claim: %s\n", strings.Join(report.Fallacies, ", "))
	}

	for i, item := range report.Result.Citations {
		if i == 0 {
			b.WriteString("\nTop evidence:\n")
		}
		fmt.Fprintf(&b, "- %s: %s (%s)\n", item.Title, item.Snippet, item.URL)
	}

	b.WriteString("\nWrite 3-4 sentences explaining the verdict from the evidence.")
	return b.String()
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No evidence URLs available)"
	}
	var b strings.Builder
	for i, u := range urls {
		if i >= maxPromptURLs {
			fmt.Fprintf(&b, "\n... and %d more URLs", len(urls)-maxPromptURLs)
			break
		}
		b.WriteString("\n- ")
		b.WriteString(u)
	}
	return b.String()
}
