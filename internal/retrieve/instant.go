package retrieve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/util"
)

// InstantAnswer queries the DuckDuckGo Instant Answer API
type InstantAnswer struct {
	fetcher  *util.Fetcher
	endpoint string
	limit    int
}

// NewInstantAnswer creates a source for an instant-answer endpoint
func NewInstantAnswer(fetcher *util.Fetcher, endpoint string, limit int) *InstantAnswer {
	return &InstantAnswer{fetcher: fetcher, endpoint: endpoint, limit: limit}
}

// ID implements Source
func (s *InstantAnswer) ID() model.SourceID {
	return model.SourceInstantAnswer
}

type relatedTopic struct {
	Text     string         `json:"Text"`
	FirstURL string         `json:"FirstURL"`
	Topics   []relatedTopic `json:"Topics"` // Set on category groups
}

type instantAnswerResponse struct {
	Heading       string         `json:"Heading"`
	AbstractText  string         `json:"AbstractText"`
	AbstractURL   string         `json:"AbstractURL"`
	Answer        string         `json:"Answer"`
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

// Search implements Source
func (s *InstantAnswer) Search(ctx context.Context, query string) ([]model.Hit, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("instant answer endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	u.RawQuery = q.Encode()

	resp, err := s.fetcher.Get(ctx, u.String(), "application/json")
	if err != nil {
		return nil, err
	}

	var payload instantAnswerResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var hits []model.Hit
	if payload.AbstractURL != "" && (payload.AbstractText != "" || payload.Answer != "") {
		snippet := payload.AbstractText
		if snippet == "" {
			snippet = payload.Answer
		}
		hits = append(hits, model.Hit{
			Title:   payload.Heading,
			Snippet: cleanHTML(snippet),
			URL:     payload.AbstractURL,
		})
	}
	for _, t := range flattenTopics(payload.RelatedTopics) {
		hits = append(hits, model.Hit{
			Title:   topicTitle(t.Text),
			Snippet: cleanHTML(t.Text),
			URL:     t.FirstURL,
		})
	}
	return limitHits(hits, s.limit), nil
}

func flattenTopics(topics []relatedTopic) []relatedTopic {
	var out []relatedTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			out = append(out, flattenTopics(t.Topics)...)
			continue
		}
		if t.FirstURL != "" && t.Text != "" {
			out = append(out, t)
		}
	}
	return out
}

// topicTitle takes the lead phrase of a related-topic text ("Paris - capital of France")
func topicTitle(text string) string {
	if i := strings.Index(text, " - "); i > 0 {
		return strings.TrimSpace(text[:i])
	}
	const maxTitle = 80
	if r := []rune(text); len(r) > maxTitle {
		return string(r[:maxTitle])
	}
	return text
}
