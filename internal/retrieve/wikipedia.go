package retrieve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/util"
)

// Wikipedia searches the MediaWiki search API
type Wikipedia struct {
	fetcher  *util.Fetcher
	endpoint string
	limit    int
}

// NewWikipedia creates a source for a MediaWiki api.php endpoint
func NewWikipedia(fetcher *util.Fetcher, endpoint string, limit int) *Wikipedia {
	return &Wikipedia{fetcher: fetcher, endpoint: endpoint, limit: limit}
}

// ID implements Source
func (w *Wikipedia) ID() model.SourceID {
	return model.SourceEncyclopedia
}

type wikiSearchResponse struct {
	Query *struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

// Search implements Source
func (w *Wikipedia) Search(ctx context.Context, query string) ([]model.Hit, error) {
	u, err := url.Parse(w.endpoint)
	if err != nil {
		return nil, fmt.Errorf("wikipedia endpoint: %w", err)
	}
	q := u.Query()
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("format", "json")
	q.Set("utf8", "1")
	q.Set("srsearch", query)
	q.Set("srlimit", strconv.Itoa(max(w.limit, 1)))
	u.RawQuery = q.Encode()

	resp, err := w.fetcher.Get(ctx, u.String(), "application/json")
	if err != nil {
		return nil, err
	}

	var payload wikiSearchResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if payload.Query == nil {
		return nil, fmt.Errorf("%w: missing query object", ErrMalformed)
	}

	hits := make([]model.Hit, 0, len(payload.Query.Search))
	for _, r := range payload.Query.Search {
		if r.Title == "" {
			continue
		}
		hits = append(hits, model.Hit{
			Title:   r.Title,
			Snippet: cleanHTML(r.Snippet),
			URL:     w.articleURL(u, r.Title),
		})
	}
	return limitHits(hits, w.limit), nil
}

// articleURL builds https://<host>/wiki/<Title_With_Underscores>
func (w *Wikipedia) articleURL(endpoint *url.URL, title string) string {
	page := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	return endpoint.Scheme + "://" + endpoint.Host + "/wiki/" + page
}
