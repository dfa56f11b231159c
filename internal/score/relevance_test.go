package score

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/claimcheck/internal/model"
)

func TestRelevance_Score(t *testing.T) {
	r := NewRelevance(nil)

	tests := []struct {
		name  string
		claim string
		body  string
		want  float64
	}{
		{"identical", "Coffee causes cancer", "coffee causes cancer", 1},
		{"disjoint", "Coffee causes cancer", "Tea tastes bitter", 0},
		{"partial", "coffee causes cancer", "coffee prevents cancer", 0.5},
		{"both empty", "", "?!", 0},
		{"stopwords only", "the of and", "is was were", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Score(tt.claim, tt.body)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.claim, tt.body, got, tt.want)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	claim := model.NewClaim("Is it true that Modi was born in Gujarat?")
	got := Keywords(claim, []string{"Narendra Modi", "india", "born"})
	want := []string{"modi", "born", "gujarat", "narendra modi", "india"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterRelevant(t *testing.T) {
	set := model.NewEvidenceSet(0)
	set.Add(model.EvidenceItem{Title: "Vaccines and autism", Snippet: "No link found", URL: "https://a.example"})
	set.Add(model.EvidenceItem{Title: "Cooking pasta", Snippet: "Boil water first", URL: "https://b.example"})
	set.Add(model.EvidenceItem{Title: "Study", Snippet: "AUTISM rates over time", URL: "https://c.example"})

	kws := Keywords(model.NewClaim("Vaccines cause autism"), nil)
	got := FilterRelevant(set, kws)

	if got.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", got.Len())
	}
	if got.Contains("https://b.example") {
		t.Error("irrelevant item kept")
	}

	if all := FilterRelevant(set, nil); all.Len() != 3 {
		t.Errorf("empty keyword set should keep all items, got %d", all.Len())
	}
}
