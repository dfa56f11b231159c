package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	if l := NewLimiter(10, 5); l.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", l.defaultBurst)
	}
	if l := NewLimiter(10, -1); l.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l.defaultBurst)
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://en.wikipedia.org/w/api.php?q=a"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	if limiter.Allow("https://EN.wikipedia.org/w/api.php?q=b") {
		t.Error("expected same host (any case) to be throttled")
	}
	if !limiter.Allow("https://api.duckduckgo.com/?q=a") {
		t.Error("expected other host to be allowed")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 20; i++ {
		if !limiter.Allow("https://example.com") {
			t.Fatalf("request %d throttled with rate disabled", i)
		}
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(100, 10)
	limiter.SetHostRate("slow.example", 0.1, 1)

	if !limiter.Allow("http://slow.example/a") {
		t.Error("first request should pass")
	}
	if limiter.Allow("http://slow.example/b") {
		t.Error("second request should be throttled")
	}
	if !limiter.Allow("http://fast.example") {
		t.Error("other host should pass")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)

	start := time.Now()
	if err := limiter.WaitWithDelay(context.Background(), "http://example.com", 30*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}
	if d := time.Since(start); d < 30*time.Millisecond {
		t.Errorf("expected delay >= 30ms, got %v", d)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.WaitWithDelay(ctx, "http://other.example", time.Hour); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestLimiter_BadURL(t *testing.T) {
	limiter := NewLimiter(10, 1)
	if err := limiter.Wait(context.Background(), "::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
	if limiter.Allow("/relative/path") {
		t.Error("expected Allow to reject URL without host")
	}
}
