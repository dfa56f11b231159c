package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRobotsChecker_CanFetch(t *testing.T) {
	var robotsHits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			atomic.AddInt32(&robotsHits, 1)
			fmt.Fprint(w, "User-agent: claimcheck\nDisallow: /private/\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rc := NewRobotsChecker(srv.Client(), "claimcheck/0.1 (+https://example.com)")
	ctx := context.Background()

	allowed, delay, err := rc.CanFetch(ctx, srv.URL+"/articles/1")
	if err != nil {
		t.Fatalf("CanFetch: %v", err)
	}
	if !allowed {
		t.Error("expected /articles/1 to be allowed for claimcheck")
	}
	if delay != 2*time.Second {
		t.Errorf("crawl delay = %v, want 2s", delay)
	}

	if rc.IsAllowed(ctx, srv.URL+"/private/x") {
		t.Error("expected /private/x to be disallowed")
	}

	if got := atomic.LoadInt32(&robotsHits); got != 1 {
		t.Errorf("robots.txt fetched %d times, want 1 (cached)", got)
	}

	rc.Clear()
	rc.IsAllowed(ctx, srv.URL+"/articles/2")
	if got := atomic.LoadInt32(&robotsHits); got != 2 {
		t.Errorf("robots.txt fetched %d times after Clear, want 2", got)
	}
}

func TestRobotsChecker_MissingRobots(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	rc := NewRobotsChecker(srv.Client(), "claimcheck/0.1")
	if !rc.IsAllowed(context.Background(), srv.URL+"/anything") {
		t.Error("expected fetch to be allowed when robots.txt is missing")
	}
}

func TestRobotsChecker_BadURL(t *testing.T) {
	rc := NewRobotsChecker(nil, "claimcheck/0.1")
	if _, _, err := rc.CanFetch(context.Background(), "not a url"); err == nil {
		t.Error("expected error for URL without host")
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"claimcheck/0.1 (+https://github.com/ppiankov/claimcheck)", "claimcheck"},
		{"Mozilla/5.0", "Mozilla"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeUserAgent(tt.in); got != tt.want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
