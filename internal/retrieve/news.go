package retrieve

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/util"
)

// News searches an RSS/Atom news search feed such as Google News
type News struct {
	fetcher  *util.Fetcher
	endpoint string
	limit    int
}

// NewNews creates a source for a feed endpoint taking the query as "q"
func NewNews(fetcher *util.Fetcher, endpoint string, limit int) *News {
	return &News{fetcher: fetcher, endpoint: endpoint, limit: limit}
}

// ID implements Source
func (n *News) ID() model.SourceID {
	return model.SourceNews
}

// Search implements Source
func (n *News) Search(ctx context.Context, query string) ([]model.Hit, error) {
	u, err := url.Parse(n.endpoint)
	if err != nil {
		return nil, fmt.Errorf("news endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	if q.Get("hl") == "" {
		q.Set("hl", "en-US")
	}
	u.RawQuery = q.Encode()

	resp, err := n.fetcher.Get(ctx, u.String(), "application/rss+xml, application/atom+xml, application/xml;q=0.9")
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	hits := make([]model.Hit, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		snippet := item.Description
		if snippet == "" {
			snippet = item.Content
		}
		hits = append(hits, model.Hit{
			Title:   cleanHTML(item.Title),
			Snippet: cleanHTML(snippet),
			URL:     item.Link,
		})
	}
	return limitHits(hits, n.limit), nil
}
