package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/claimcheck/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("hits", "encyclopedia", "water is wet")
	b := Key("hits", "encyclopedia", "water is wet")
	c := Key("hits", "news", "water is wet")
	d := Key("hits", "encyclopediawater", " is wet")

	if a != b {
		t.Error("Key is not deterministic")
	}
	if a == c || a == d {
		t.Error("distinct parts produced the same key")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if v, ok := c.Get("k"); !ok || string(v) != "v" {
		t.Errorf("Get = %q, %v", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("hit after Delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	key := Key("hits", "news", "q")
	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok := c.Get(key); !ok || string(v) != "payload" {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := c.Get(key); ok {
		t.Error("expected expired entry to miss")
	}
	if _, err := os.Stat(c.path(key)); !os.IsNotExist(err) {
		t.Error("expired entry file not removed")
	}
}

func TestDiskCache_Corrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := "corrupt"
	if err := os.WriteFile(filepath.Join(dir, key+".cache"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("corrupt entry should miss")
	}
	if err := c.Delete("never-set"); err != nil {
		t.Errorf("Delete missing = %v, want nil", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	key := Key("hits", "encyclopedia", "q")

	first := NewLayeredCache(time.Minute, dir, time.Hour)
	if err := first.Set(key, []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh layered cache over the same directory starts with cold memory
	second := NewLayeredCache(time.Minute, dir, time.Hour)
	if v, ok := second.Get(key); !ok || string(v) != "v" {
		t.Fatalf("disk hit missing: %q, %v", v, ok)
	}
	if _, ok := second.memory.Get(key); !ok {
		t.Error("disk hit not promoted to memory")
	}

	if err := second.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := second.Get(key); ok {
		t.Error("hit after Clear")
	}
}

func TestNew(t *testing.T) {
	if c := New(model.CacheConfig{Enabled: false}); c != nil {
		t.Errorf("disabled cache = %T, want nil", c)
	}
	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache); !ok {
		t.Error("expected memory cache without dir")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, Dir: t.TempDir()}).(*LayeredCache); !ok {
		t.Error("expected layered cache with dir")
	}
}

func TestHitStore(t *testing.T) {
	store := NewHitStore(NewMemoryCache(time.Minute, time.Minute), 0)
	hits := []model.Hit{
		{Title: "Water", Snippet: "Water is a liquid", URL: "https://en.wikipedia.org/wiki/Water"},
	}

	if _, ok := store.Get(model.SourceEncyclopedia, "water"); ok {
		t.Fatal("unexpected hit")
	}
	if err := store.Put(model.SourceEncyclopedia, "water", hits); err != nil {
		t.Fatal(err)
	}
	got, ok := store.Get(model.SourceEncyclopedia, "water")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if diff := cmp.Diff(hits, got); diff != "" {
		t.Errorf("hits mismatch (-want +got):\n%s", diff)
	}
	if _, ok := store.Get(model.SourceNews, "water"); ok {
		t.Error("hits leaked across sources")
	}

	var nilStore *HitStore
	if _, ok := nilStore.Get(model.SourceNews, "x"); ok {
		t.Error("nil store should miss")
	}
	if err := nilStore.Put(model.SourceNews, "x", hits); err != nil {
		t.Errorf("nil store Put = %v", err)
	}
	if NewHitStore(nil, time.Minute) != nil {
		t.Error("NewHitStore(nil) should return nil")
	}
}
