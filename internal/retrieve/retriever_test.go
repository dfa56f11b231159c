package retrieve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/model"
	"go.uber.org/zap/zaptest"
)

// fakeSource returns hits computed from the query and counts calls
type fakeSource struct {
	id    model.SourceID
	calls int32
	delay time.Duration
	err   error
	hits  func(query string) []model.Hit
}

func (f *fakeSource) ID() model.SourceID { return f.id }

func (f *fakeSource) Search(ctx context.Context, query string) ([]model.Hit, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.hits == nil {
		return nil, nil
	}
	return f.hits(query), nil
}

func plainItem(source model.SourceID, h model.Hit) model.EvidenceItem {
	return model.EvidenceItem{Source: source, Title: h.Title, Snippet: h.Snippet, URL: h.URL}
}

func urls(set *model.EvidenceSet) []string {
	var out []string
	for _, item := range set.Items() {
		out = append(out, item.URL)
	}
	return out
}

func TestRetriever_OrderedMergeAndDedup(t *testing.T) {
	enc := &fakeSource{id: model.SourceEncyclopedia, hits: func(q string) []model.Hit {
		return []model.Hit{
			{Title: "Shared", URL: "https://en.wikipedia.org/wiki/Shared"},
			{Title: q, URL: "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(q, " ", "_")},
		}
	}}
	ia := &fakeSource{id: model.SourceInstantAnswer, delay: 5 * time.Millisecond, hits: func(q string) []model.Hit {
		return []model.Hit{{Title: "ddg " + q, URL: "https://duckduckgo.com/" + strings.ReplaceAll(q, " ", "_")}}
	}}

	r := NewRetriever(NewRegistry(enc, ia), nil, nil, Options{Parallelism: 4}, zaptest.NewLogger(t))
	res := r.Retrieve(context.Background(), []string{"a", "a b"}, plainItem)

	want := []string{
		"https://en.wikipedia.org/wiki/Shared",
		"https://en.wikipedia.org/wiki/a",
		"https://duckduckgo.com/a",
		"https://en.wikipedia.org/wiki/a_b",
		"https://duckduckgo.com/a_b",
	}
	if diff := cmp.Diff(want, urls(res.Evidence)); diff != "" {
		t.Errorf("merge order mismatch (-want +got):\n%s", diff)
	}

	wantStats := model.RetrievalStats{Queries: 2, Calls: 4, Hits: 6, Unique: 5}
	if diff := cmp.Diff(wantStats, res.Stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if len(res.Batches) != 4 || res.Batches[1].Source != model.SourceInstantAnswer || res.Batches[1].Query != "a" {
		t.Errorf("batches not in (query, source) order: %+v", res.Batches)
	}
}

func TestRetriever_Cap(t *testing.T) {
	src := &fakeSource{id: model.SourceEncyclopedia, hits: func(q string) []model.Hit {
		hits := make([]model.Hit, 10)
		for i := range hits {
			hits[i] = model.Hit{Title: q, URL: fmt.Sprintf("https://e.example/%s/%d", q, i)}
		}
		return hits
	}}

	queries := []string{"q0", "q1", "q2", "q3", "q4", "q5"}
	r := NewRetriever(NewRegistry(src), nil, nil, Options{}, nil)
	res := r.Retrieve(context.Background(), queries, plainItem)

	if res.Evidence.Len() != model.MaxEvidenceItems {
		t.Fatalf("Len() = %d, want %d", res.Evidence.Len(), model.MaxEvidenceItems)
	}
	got := urls(res.Evidence)
	if got[0] != "https://e.example/q0/0" || got[19] != "https://e.example/q1/9" {
		t.Errorf("cap did not keep the first items in order: first=%s last=%s", got[0], got[19])
	}
}

func TestRetriever_StopsOnceFull(t *testing.T) {
	src := &fakeSource{id: model.SourceEncyclopedia, hits: func(q string) []model.Hit {
		hits := make([]model.Hit, 25)
		for i := range hits {
			hits[i] = model.Hit{Title: q, URL: fmt.Sprintf("https://e.example/%s/%d", q, i)}
		}
		return hits
	}}

	queries := []string{"q0", "q1", "q2", "q3", "q4", "q5"}
	r := NewRetriever(NewRegistry(src), nil, nil, Options{Parallelism: 1}, zaptest.NewLogger(t))
	res := r.Retrieve(context.Background(), queries, plainItem)

	if res.Evidence.Len() != model.MaxEvidenceItems {
		t.Fatalf("Len() = %d, want %d", res.Evidence.Len(), model.MaxEvidenceItems)
	}
	if calls := atomic.LoadInt32(&src.calls); calls != 1 {
		t.Errorf("source called %d times, want 1 once the set filled", calls)
	}
	got := urls(res.Evidence)
	if got[0] != "https://e.example/q0/0" || got[19] != "https://e.example/q0/19" {
		t.Errorf("evidence not taken from the first query: first=%s last=%s", got[0], got[19])
	}

	wantStats := model.RetrievalStats{Queries: 6, Calls: 1, Hits: 25, Unique: 20, Skipped: 5}
	if diff := cmp.Diff(wantStats, res.Stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	for _, b := range res.Batches[1:] {
		if b.Status != StatusSkipped {
			t.Errorf("batch %q status = %s, want %s", b.Query, b.Status, StatusSkipped)
		}
	}
}

func TestRetriever_CancelsInFlightOnceFull(t *testing.T) {
	fast := &fakeSource{id: model.SourceEncyclopedia, hits: func(q string) []model.Hit {
		hits := make([]model.Hit, model.MaxEvidenceItems)
		for i := range hits {
			hits[i] = model.Hit{Title: q, URL: fmt.Sprintf("https://e.example/%s/%d", q, i)}
		}
		return hits
	}}
	slow := &fakeSource{id: model.SourceNews, delay: 5 * time.Second}

	r := NewRetriever(NewRegistry(fast, slow), nil, nil, Options{Parallelism: 4}, nil)

	start := time.Now()
	res := r.Retrieve(context.Background(), []string{"a"}, plainItem)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("in-flight call not cancelled, took %v", elapsed)
	}
	if res.Evidence.Len() != model.MaxEvidenceItems {
		t.Errorf("Len() = %d, want %d", res.Evidence.Len(), model.MaxEvidenceItems)
	}
	if res.Batches[1].Status != StatusSkipped {
		t.Errorf("slow batch status = %s, want %s", res.Batches[1].Status, StatusSkipped)
	}
}

func TestRetriever_FailuresAbsorbed(t *testing.T) {
	broken := &fakeSource{id: model.SourceNews, err: errors.New("connection refused")}
	slow := &fakeSource{id: model.SourceInstantAnswer, delay: time.Second}
	ok := &fakeSource{id: model.SourceEncyclopedia, hits: func(q string) []model.Hit {
		return []model.Hit{{Title: "ok", URL: "https://e.example/" + q}}
	}}

	r := NewRetriever(NewRegistry(ok, slow, broken), nil, nil, Options{CallTimeout: 20 * time.Millisecond}, nil)

	start := time.Now()
	res := r.Retrieve(context.Background(), []string{"x"}, plainItem)
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("timeout not applied, took %v", elapsed)
	}

	if res.Evidence.Len() != 1 {
		t.Errorf("Len() = %d, want 1", res.Evidence.Len())
	}
	statuses := map[model.SourceID]Status{}
	for _, b := range res.Batches {
		statuses[b.Source] = b.Status
	}
	want := map[model.SourceID]Status{
		model.SourceEncyclopedia:  StatusOK,
		model.SourceInstantAnswer: StatusFailed,
		model.SourceNews:          StatusFailed,
	}
	if diff := cmp.Diff(want, statuses); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
	if res.Stats.Failed != 2 {
		t.Errorf("Failed = %d, want 2", res.Stats.Failed)
	}
	if atomic.LoadInt32(&broken.calls) != 1 {
		t.Errorf("failed call retried: %d calls", broken.calls)
	}
}

func TestRetriever_CancelledRequest(t *testing.T) {
	src := &fakeSource{id: model.SourceEncyclopedia}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewRetriever(NewRegistry(src), nil, nil, Options{}, nil).Retrieve(ctx, []string{"a", "b"}, plainItem)

	if res.Evidence.Len() != 0 {
		t.Errorf("expected no evidence, got %d", res.Evidence.Len())
	}
	if res.Stats.Skipped != 2 || res.Stats.Calls != 0 {
		t.Errorf("stats = %+v, want 2 skipped and 0 calls", res.Stats)
	}
	if atomic.LoadInt32(&src.calls) != 0 {
		t.Errorf("source called %d times after cancel", src.calls)
	}
}

func TestRetriever_EmptyStatus(t *testing.T) {
	src := &fakeSource{id: model.SourceEncyclopedia}
	res := NewRetriever(NewRegistry(src), nil, nil, Options{}, nil).Retrieve(context.Background(), []string{"a"}, plainItem)
	if res.Batches[0].Status != StatusEmpty {
		t.Errorf("Status = %s, want %s", res.Batches[0].Status, StatusEmpty)
	}
}

type fakeReader struct {
	mu    sync.Mutex
	asked []string
	text  map[string]string
}

func (f *fakeReader) ReadableText(ctx context.Context, url string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, url)
	t, ok := f.text[url]
	return t, ok
}

func TestRetriever_Enrichment(t *testing.T) {
	src := &fakeSource{id: model.SourceEncyclopedia, hits: func(q string) []model.Hit {
		hits := make([]model.Hit, 8)
		for i := range hits {
			hits[i] = model.Hit{Title: "t", URL: fmt.Sprintf("https://e.example/%d", i)}
		}
		return hits
	}}
	reader := &fakeReader{text: map[string]string{
		"https://e.example/0": "full text zero",
		"https://e.example/3": "full text three",
		"https://e.example/6": "never requested",
	}}

	r := NewRetriever(NewRegistry(src), reader, nil, Options{EnrichTop: 5}, nil)
	res := r.Retrieve(context.Background(), []string{"q"}, plainItem)

	if len(reader.asked) != 5 {
		t.Errorf("reader asked %d times, want 5", len(reader.asked))
	}
	items := res.Evidence.Items()
	if items[0].FullText != "full text zero" || items[3].FullText != "full text three" {
		t.Errorf("enrichment missing: %q / %q", items[0].FullText, items[3].FullText)
	}
	if items[1].FullText != "" || items[6].FullText != "" {
		t.Error("unexpected full text on unenriched items")
	}
	if res.Stats.Enriched != 2 {
		t.Errorf("Enriched = %d, want 2", res.Stats.Enriched)
	}
}

func TestRetriever_Cache(t *testing.T) {
	src := &fakeSource{id: model.SourceEncyclopedia, hits: func(q string) []model.Hit {
		return []model.Hit{{Title: q, URL: "https://e.example/" + q}}
	}}
	store := cache.NewHitStore(cache.NewMemoryCache(time.Minute, time.Minute), 0)
	r := NewRetriever(NewRegistry(src), nil, store, Options{}, nil)

	first := r.Retrieve(context.Background(), []string{"a", "b"}, plainItem)
	second := r.Retrieve(context.Background(), []string{"a", "b"}, plainItem)

	if got := atomic.LoadInt32(&src.calls); got != 2 {
		t.Errorf("source called %d times, want 2", got)
	}
	if second.Stats.CacheHits != 2 {
		t.Errorf("CacheHits = %d, want 2", second.Stats.CacheHits)
	}
	if diff := cmp.Diff(urls(first.Evidence), urls(second.Evidence)); diff != "" {
		t.Errorf("cached evidence differs:\n%s", diff)
	}
}

func TestRegistry(t *testing.T) {
	a := &fakeSource{id: model.SourceEncyclopedia}
	b := &fakeSource{id: model.SourceNews}
	a2 := &fakeSource{id: model.SourceEncyclopedia}

	r := NewRegistry(a, b, a2)
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if s, ok := r.Find(model.SourceEncyclopedia); !ok || s != Source(a2) {
		t.Error("re-registering an ID should replace the source in place")
	}
	if r.Sources()[0] != Source(a2) {
		t.Error("replacement changed source order")
	}
	if _, ok := r.Find(model.SourceInstantAnswer); ok {
		t.Error("found unregistered source")
	}
}
