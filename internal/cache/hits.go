package cache

import (
	"encoding/json"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

// HitStore caches raw hits per (source, query). A nil store is a valid
// always-miss store.
type HitStore struct {
	cache Cache
	ttl   time.Duration
}

// NewHitStore wraps c; it returns nil when c is nil
func NewHitStore(c Cache, ttl time.Duration) *HitStore {
	if c == nil {
		return nil
	}
	return &HitStore{cache: c, ttl: ttl}
}

// Get returns cached hits for the source and query
func (s *HitStore) Get(source model.SourceID, query string) ([]model.Hit, bool) {
	if s == nil {
		return nil, false
	}
	raw, ok := s.cache.Get(Key("hits", string(source), query))
	if !ok {
		return nil, false
	}
	var hits []model.Hit
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, false
	}
	return hits, true
}

// Put stores hits for the source and query
func (s *HitStore) Put(source model.SourceID, query string, hits []model.Hit) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(hits)
	if err != nil {
		return err
	}
	return s.cache.Set(Key("hits", string(source), query), raw, s.ttl)
}
