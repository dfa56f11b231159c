package score

import (
	"fmt"
	"testing"

	"github.com/ppiankov/claimcheck/internal/model"
)

func items(snippets ...string) []model.EvidenceItem {
	out := make([]model.EvidenceItem, len(snippets))
	for i, s := range snippets {
		out[i] = model.EvidenceItem{
			Title:   fmt.Sprintf("Result %d", i),
			Snippet: s,
			URL:     fmt.Sprintf("https://example.com/%d", i),
		}
	}
	return out
}

func TestTruthScorer_Empty(t *testing.T) {
	a := NewTruthScorer(nil).Assess(nil)
	if a.TruthScore != 0.5 || a.Supports != 0 || a.Refutes != 0 || a.Neutral != 0 {
		t.Errorf("Assess(nil) = %+v, want neutral 0.5", a)
	}
}

func TestTruthScorer_MostlyConfirmed(t *testing.T) {
	snippets := make([]string, 0, 10)
	for i := 0; i < 9; i++ {
		snippets = append(snippets, "Researchers confirmed the finding.")
	}
	snippets = append(snippets, "An unrelated article about gardening.")

	a := NewTruthScorer(nil).Assess(items(snippets...))
	if a.TruthScore != 0 {
		t.Errorf("TruthScore = %v, want 0", a.TruthScore)
	}
	if a.Supports != 9 || a.Refutes != 0 || a.Neutral != 1 {
		t.Errorf("counts = %+v, want 9 supports, 0 refutes, 1 neutral", a)
	}
}

func TestTruthScorer_Counts(t *testing.T) {
	tests := []struct {
		name      string
		snippets  []string
		wantScore float64
		wantSup   int
		wantRef   int
		wantNeu   int
	}{
		{
			name:      "all refuted",
			snippets:  []string{"This claim is a hoax.", "Fact checkers say it is false."},
			wantScore: 1,
			wantRef:   2,
		},
		{
			name:      "both cues on one item",
			snippets:  []string{"Widely shared post is not true, confirmed by officials"},
			wantScore: 0.5,
			wantSup:   1,
			wantRef:   1,
		},
		{
			name:      "word boundaries",
			snippets:  []string{"An untrue rumour", "The truest form of art"},
			wantScore: 1,
			wantRef:   1,
			wantNeu:   1,
		},
		{
			name:      "case insensitive",
			snippets:  []string{"DEBUNKED by scientists", "Study VERIFIED", "Study verified again", "Report confirmed"},
			wantScore: 0.25,
			wantSup:   3,
			wantRef:   1,
		},
		{
			name:      "only neutral",
			snippets:  []string{"A history of tea", "Tea in Britain"},
			wantScore: 0.5,
			wantNeu:   2,
		},
	}

	s := NewTruthScorer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := s.Assess(items(tt.snippets...))
			if a.TruthScore != tt.wantScore {
				t.Errorf("TruthScore = %v, want %v", a.TruthScore, tt.wantScore)
			}
			if a.Supports != tt.wantSup || a.Refutes != tt.wantRef || a.Neutral != tt.wantNeu {
				t.Errorf("counts = %d/%d/%d, want %d/%d/%d",
					a.Supports, a.Refutes, a.Neutral, tt.wantSup, tt.wantRef, tt.wantNeu)
			}
			if a.TruthScore < 0 || a.TruthScore > 1 {
				t.Errorf("TruthScore %v out of range", a.TruthScore)
			}
		})
	}
}

func TestTruthScorer_FullTextScanned(t *testing.T) {
	item := model.EvidenceItem{Title: "Article", Snippet: "Summary", URL: "https://a.example"}
	item = item.WithFullText("Later in the article the claim is described as misinformation.")

	a := NewTruthScorer(nil).Assess([]model.EvidenceItem{item})
	if a.Refutes != 1 || a.TruthScore != 1 {
		t.Errorf("full text cue missed: %+v", a)
	}
}
