package model

import "fmt"

// MaxEvidenceItems bounds an EvidenceSet when no explicit capacity is given
const MaxEvidenceItems = 20

// SourceID identifies the kind of source an evidence item came from
type SourceID string

const (
	SourceEncyclopedia  SourceID = "encyclopedia"   // Encyclopedia search API
	SourceInstantAnswer SourceID = "instant_answer" // Instant-answer API
	SourceNews          SourceID = "news"           // News index
	SourceOther         SourceID = "other"
)

// Valid reports whether s is one of the known source kinds
func (s SourceID) Valid() bool {
	switch s {
	case SourceEncyclopedia, SourceInstantAnswer, SourceNews, SourceOther:
		return true
	}
	return false
}

// Hit is a raw search result as returned by a source
type Hit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// EvidenceItem is one retrieved result prepared for scoring.
// Items are values: enrichment produces a new item rather than changing one.
type EvidenceItem struct {
	Source      SourceID `json:"source"`
	Title       string   `json:"title"`
	Snippet     string   `json:"snippet"`
	URL         string   `json:"url"`
	FullText    string   `json:"full_text,omitempty"`
	Relevance   float64  `json:"relevance"`
	Credibility float64  `json:"credibility"`
}

// WithFullText returns a copy of the item carrying extracted article text
func (e EvidenceItem) WithFullText(text string) EvidenceItem {
	e.FullText = text
	return e
}

// Summary is the title and snippet joined, used for keyword filtering
func (e EvidenceItem) Summary() string {
	return e.Title + " " + e.Snippet
}

// Text is every textual field of the item joined, used for cue scanning
func (e EvidenceItem) Text() string {
	if e.FullText == "" {
		return e.Summary()
	}
	return e.Title + " " + e.Snippet + " " + e.FullText
}

// EvidenceSet is an ordered collection of evidence items keyed by URL
type EvidenceSet struct {
	items    []EvidenceItem
	seen     map[string]struct{}
	capacity int
}

// NewEvidenceSet creates an empty set holding at most capacity items.
// A non-positive capacity falls back to MaxEvidenceItems.
func NewEvidenceSet(capacity int) *EvidenceSet {
	if capacity <= 0 {
		capacity = MaxEvidenceItems
	}
	return &EvidenceSet{
		seen:     make(map[string]struct{}),
		capacity: capacity,
	}
}

// Add appends the item unless its URL is empty, already present, or the set is full.
// It reports whether the item was added.
func (s *EvidenceSet) Add(item EvidenceItem) bool {
	if item.URL == "" || s.Full() {
		return false
	}
	if _, ok := s.seen[item.URL]; ok {
		return false
	}
	s.seen[item.URL] = struct{}{}
	s.items = append(s.items, item)
	return true
}

// Merge adds every item of other in order and returns the number added
func (s *EvidenceSet) Merge(other *EvidenceSet) int {
	if other == nil {
		return 0
	}
	added := 0
	for _, item := range other.items {
		if s.Add(item) {
			added++
		}
	}
	return added
}

// Contains reports whether an item with the URL is present
func (s *EvidenceSet) Contains(url string) bool {
	_, ok := s.seen[url]
	return ok
}

// Full reports whether the set reached its capacity
func (s *EvidenceSet) Full() bool {
	return len(s.items) >= s.capacity
}

// Len returns the number of items
func (s *EvidenceSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Cap returns the capacity of the set
func (s *EvidenceSet) Cap() int {
	return s.capacity
}

// Items returns a copy of the items in arrival order
func (s *EvidenceSet) Items() []EvidenceItem {
	if s == nil {
		return nil
	}
	out := make([]EvidenceItem, len(s.items))
	copy(out, s.items)
	return out
}

// Replace swaps the item at index i for a new value with the same URL
func (s *EvidenceSet) Replace(i int, item EvidenceItem) error {
	if i < 0 || i >= len(s.items) {
		return fmt.Errorf("index %d out of range", i)
	}
	if s.items[i].URL != item.URL {
		return fmt.Errorf("replace %s: url mismatch %s", s.items[i].URL, item.URL)
	}
	s.items[i] = item
	return nil
}

// Filter returns a new set with the items for which keep returns true
func (s *EvidenceSet) Filter(keep func(EvidenceItem) bool) *EvidenceSet {
	out := NewEvidenceSet(s.capacity)
	for _, item := range s.items {
		if keep(item) {
			out.Add(item)
		}
	}
	return out
}
