package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/claimcheck/internal/logging"
	"github.com/ppiankov/claimcheck/internal/util"
	"github.com/ppiankov/claimcheck/internal/worker"
	"go.uber.org/zap"
)

// DefaultMaxText is the rune bound on extracted article text
const DefaultMaxText = 4000

// boilerplate is removed before text is collected
const boilerplate = "script, style, noscript, iframe, svg, nav, header, footer, aside, form, figure, .reference, .mw-editsection"

// contentRoots are tried in order; the first present selection is read
var contentRoots = []string{"article", "main", ".mw-parser-output", "#content", "body"}

// Reader fetches pages and extracts their readable text
type Reader struct {
	fetcher *util.Fetcher
	robots  *util.RobotsChecker
	limiter *worker.Limiter
	sites   *Sites
	maxText int
	logger  *zap.Logger
}

// ReaderOption configures a Reader
type ReaderOption func(*Reader)

// WithRobots makes the reader skip pages robots.txt disallows and honour the
// crawl delay through limiter, which may be nil
func WithRobots(robots *util.RobotsChecker, limiter *worker.Limiter) ReaderOption {
	return func(r *Reader) {
		r.robots = robots
		r.limiter = limiter
	}
}

// WithMaxText overrides DefaultMaxText
func WithMaxText(n int) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.maxText = n
		}
	}
}

// WithLogger sets the reader's logger
func WithLogger(logger *zap.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = logging.OrNop(logger)
	}
}

// NewReader creates a reader on top of fetcher
func NewReader(fetcher *util.Fetcher, opts ...ReaderOption) *Reader {
	r := &Reader{
		fetcher: fetcher,
		sites:   NewSites(),
		maxText: DefaultMaxText,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadableText returns the main text of the page at url, bounded to the
// configured rune count. ok is false when the page is disallowed, unreachable,
// not HTML or has no text.
func (r *Reader) ReadableText(ctx context.Context, url string) (string, bool) {
	if r.robots != nil {
		allowed, delay, err := r.robots.CanFetch(ctx, url)
		if err != nil || !allowed {
			r.logger.Debug("skip article", zap.String("url", url), zap.Bool("allowed", allowed), zap.Error(err))
			return "", false
		}
		if delay > 0 && r.limiter != nil {
			if err := r.limiter.WaitWithDelay(ctx, url, delay); err != nil {
				return "", false
			}
		}
	}

	resp, err := r.fetcher.Get(ctx, url, "text/html,application/xhtml+xml")
	if err != nil {
		r.logger.Debug("fetch article", zap.String("url", url), zap.Error(err))
		return "", false
	}
	if resp.ContentType != "" && !strings.Contains(strings.ToLower(resp.ContentType), "html") {
		return "", false
	}

	text, err := extractWith(r.sites.For(url), resp.Body)
	if err != nil {
		r.logger.Debug("parse article", zap.String("url", url), zap.Error(err))
		return "", false
	}
	text = Truncate(text, r.maxText)
	return text, text != ""
}

// ExtractText returns the paragraph text of the main content of an HTML
// document, falling back to all of its text when it has no paragraphs
func ExtractText(page []byte) (string, error) {
	return extractWith(genericSite{}, page)
}

func extractWith(site Site, page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", err
	}
	doc.Find(boilerplate).Remove()

	var parts []string
	site.Paragraphs(doc).Each(func(_ int, p *goquery.Selection) {
		if t := collapse(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return collapse(contentRoot(doc).Text()), nil
	}
	return strings.Join(parts, " "), nil
}

// Truncate cuts text to at most n runes
func Truncate(text string, n int) string {
	if n <= 0 {
		return text
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
