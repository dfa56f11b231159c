// Package retrieve fans claim queries out to the search sources, merges the
// hits into a bounded evidence set and enriches the leading items with
// article text.
package retrieve

import (
	"context"
	"errors"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
	"golang.org/x/net/html"
)

// ErrMalformed is returned when a source responds with an unparseable payload
var ErrMalformed = errors.New("malformed response")

// Source is one search backend
type Source interface {
	ID() model.SourceID
	Search(ctx context.Context, query string) ([]model.Hit, error)
}

// Registry holds the enabled sources in query order
type Registry struct {
	sources []Source
}

// NewRegistry creates a registry with the given sources
func NewRegistry(sources ...Source) *Registry {
	r := &Registry{}
	for _, s := range sources {
		r.Register(s)
	}
	return r
}

// Register appends a source, replacing any existing source with the same ID
func (r *Registry) Register(s Source) {
	for i, existing := range r.sources {
		if existing.ID() == s.ID() {
			r.sources[i] = s
			return
		}
	}
	r.sources = append(r.sources, s)
}

// Sources returns the sources in registration order
func (r *Registry) Sources() []Source {
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// Find returns the source with the given ID
func (r *Registry) Find(id model.SourceID) (Source, bool) {
	for _, s := range r.sources {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

// Len returns the number of sources
func (r *Registry) Len() int {
	return len(r.sources)
}

// cleanHTML returns the text content of an HTML fragment with whitespace collapsed
func cleanHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(b.String()), " ")
}

func limitHits(hits []model.Hit, limit int) []model.Hit {
	if limit > 0 && len(hits) > limit {
		return hits[:limit]
	}
	return hits
}
