package retrieve

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/logging"
	"github.com/ppiankov/claimcheck/internal/metrics"
	"github.com/ppiankov/claimcheck/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status says what happened to one (source, query) call
type Status string

const (
	StatusOK      Status = "ok"      // Call returned hits
	StatusEmpty   Status = "empty"   // Call succeeded with no hits
	StatusFailed  Status = "failed"  // Transport error, bad status, malformed payload or timeout
	StatusSkipped Status = "skipped" // Request was cancelled or the evidence set filled first
)

// Batch is the result-or-empty value of one call. Hits is empty unless
// Status is StatusOK.
type Batch struct {
	Source model.SourceID
	Query  string
	Hits   []model.Hit
	Status Status
	Cached bool
	Err    error
}

// Reader extracts readable article text; ok is false when nothing usable was found
type Reader interface {
	ReadableText(ctx context.Context, url string) (text string, ok bool)
}

// ItemFunc turns a hit into an evidence item, scoring relevance and credibility
type ItemFunc func(source model.SourceID, hit model.Hit) model.EvidenceItem

// Options bound the fan-out
type Options struct {
	MaxEvidence int           // Evidence set capacity
	Parallelism int           // Concurrent calls per request
	CallTimeout time.Duration // Per call, including enrichment fetches
	EnrichTop   int           // Leading items that get article text
}

// Result is the merged evidence of one request plus per-call detail
type Result struct {
	Evidence *model.EvidenceSet
	Batches  []Batch
	Stats    model.RetrievalStats
}

// Retriever runs the (query, source) calls concurrently and merges the
// batches in (query, source) order as they finish, so dedup and the cap are
// deterministic for identical hits. Once the merged prefix fills the evidence
// set the remaining calls are cancelled.
type Retriever struct {
	registry *Registry
	reader   Reader
	hits     *cache.HitStore
	opts     Options
	logger   *zap.Logger
}

// NewRetriever creates a retriever. reader and hits may be nil.
func NewRetriever(registry *Registry, reader Reader, hits *cache.HitStore, opts Options, logger *zap.Logger) *Retriever {
	if opts.MaxEvidence <= 0 {
		opts.MaxEvidence = model.MaxEvidenceItems
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 8
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 8 * time.Second
	}
	if opts.EnrichTop < 0 {
		opts.EnrichTop = 0
	}
	return &Retriever{
		registry: registry,
		reader:   reader,
		hits:     hits,
		opts:     opts,
		logger:   logging.OrNop(logger),
	}
}

// Retrieve searches every source for every query. Individual failures become
// failed batches; calls cancelled after the evidence set fills become skipped
// batches. Retrieve itself never fails.
func (r *Retriever) Retrieve(ctx context.Context, queries []string, item ItemFunc) *Result {
	sources := r.registry.Sources()
	res := &Result{
		Evidence: model.NewEvidenceSet(r.opts.MaxEvidence),
		Batches:  make([]Batch, len(queries)*len(sources)),
	}
	res.Stats.Queries = len(queries)

	rctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := &merger{res: res, item: item, done: make([]bool, len(res.Batches)), full: cancel}

	g, gctx := errgroup.WithContext(rctx)
	g.SetLimit(r.opts.Parallelism)
	for qi, q := range queries {
		for si, src := range sources {
			i := qi*len(sources) + si
			g.Go(func() error {
				m.finish(i, r.call(gctx, src, q))
				return nil
			})
		}
	}
	_ = g.Wait()

	res.Stats.Unique = res.Evidence.Len()
	res.Stats.Enriched = r.enrich(ctx, res.Evidence)
	return res
}

// merger folds finished batches into the result in index order. A batch is
// merged only once every batch before it has finished.
type merger struct {
	mu     sync.Mutex
	res    *Result
	item   ItemFunc
	done   []bool
	next   int
	full   context.CancelFunc
	filled bool
}

// finish records batch i and merges the finished prefix. It runs inside the
// worker, so a fill cancels the request before the worker's slot frees up.
func (m *merger) finish(i int, b Batch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.res.Batches[i] = b
	m.done[i] = true
	for m.next < len(m.done) && m.done[m.next] {
		m.merge(m.res.Batches[m.next])
		m.next++
	}
	if !m.filled && m.res.Evidence.Full() {
		m.filled = true
		m.full()
	}
}

func (m *merger) merge(b Batch) {
	stats := &m.res.Stats
	switch b.Status {
	case StatusFailed:
		stats.Failed++
	case StatusSkipped:
		stats.Skipped++
	}
	if b.Status != StatusSkipped {
		stats.Calls++
	}
	if b.Cached {
		stats.CacheHits++
	}
	stats.Hits += len(b.Hits)

	for _, h := range b.Hits {
		if m.res.Evidence.Full() {
			break
		}
		m.res.Evidence.Add(m.item(b.Source, h))
	}
}

func (r *Retriever) call(ctx context.Context, src Source, query string) Batch {
	b := Batch{Source: src.ID(), Query: query}
	id := string(src.ID())

	if err := ctx.Err(); err != nil {
		b.Status, b.Err = StatusSkipped, err
		metrics.ObserveCall(id, string(b.Status), 0, false)
		return b
	}

	if hits, ok := r.hits.Get(src.ID(), query); ok {
		b.Hits, b.Cached = hits, true
		b.Status = statusOf(hits)
		metrics.CacheHits.WithLabelValues(id).Inc()
		metrics.ObserveCall(id, string(b.Status), 0, false)
		return b
	}

	cctx, cancel := context.WithTimeout(ctx, r.opts.CallTimeout)
	defer cancel()

	start := time.Now()
	hits, err := src.Search(cctx, query)
	elapsed := time.Since(start)

	if err != nil {
		b.Status, b.Err = StatusFailed, err
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			b.Status = StatusSkipped
		}
		r.logger.Debug("search call failed",
			zap.String("source", id),
			zap.String("query", query),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		metrics.ObserveCall(id, string(b.Status), elapsed, true)
		return b
	}

	b.Hits = hits
	b.Status = statusOf(hits)
	metrics.ObserveCall(id, string(b.Status), elapsed, true)

	if err := r.hits.Put(src.ID(), query, hits); err != nil {
		r.logger.Warn("cache hits", zap.String("source", id), zap.Error(err))
	}
	return b
}

// enrich adds article text to the first EnrichTop items. Failures leave the
// item as it was.
func (r *Retriever) enrich(ctx context.Context, set *model.EvidenceSet) int {
	if r.reader == nil || r.opts.EnrichTop == 0 {
		return 0
	}
	items := set.Items()
	n := min(r.opts.EnrichTop, len(items))
	texts := make([]string, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallelism)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, r.opts.CallTimeout)
			defer cancel()
			if text, ok := r.reader.ReadableText(cctx, items[i].URL); ok {
				texts[i] = text
			}
			return nil
		})
	}
	_ = g.Wait()

	enriched := 0
	for i, text := range texts {
		if text == "" {
			metrics.Enrichments.WithLabelValues("empty").Inc()
			continue
		}
		if err := set.Replace(i, items[i].WithFullText(text)); err != nil {
			r.logger.Warn("enrich evidence", zap.Error(err))
			continue
		}
		enriched++
		metrics.Enrichments.WithLabelValues("ok").Inc()
	}
	return enriched
}

func statusOf(hits []model.Hit) Status {
	if len(hits) == 0 {
		return StatusEmpty
	}
	return StatusOK
}
