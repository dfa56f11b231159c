package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAnalyzer_Normalize(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		in   string
		want []string
	}{
		{"Water is wet", []string{"water", "wet"}},
		{"The vaccines were CONFIRMED safe!", []string{"vaccine", "confirm", "safe"}},
		{"Narendra Modi isn't American.", []string{"narendra", "modi", "isnt", "american"}},
		{"", nil},
		{"?!...", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := a.Normalize(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	a := NewAnalyzer()
	in := "Scientists studied the claims about climate change"
	first := a.Normalize(in)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, a.Normalize(in)); diff != "" {
			t.Fatalf("Normalize not deterministic:\n%s", diff)
		}
	}
}

func TestTokenize_Unicode(t *testing.T) {
	got := Tokenize("Ｆｕｌｌwidth Café")
	want := []string{"fullwidth", "café"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"studies":    "study",
		"confirmed":  "confirm",
		"running":    "runn",
		"glass":      "glass",
		"virus":      "virus",
		"cats":       "cats",
		"vegetables": "vegetable",
	}
	for in, want := range tests {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContainsPhrase(t *testing.T) {
	tests := []struct {
		text   string
		phrase string
		want   bool
	}{
		{"narendra modi is american", "american", true},
		{"narendra modi is south-american", "american", true},
		{"the americano was cold", "american", false},
		{"Is it true that water is wet?", "water", true},
		{"prime minister of india", "prime minister", true},
		{"anything", "", false},
	}
	for _, tt := range tests {
		if got := ContainsPhrase(tt.text, tt.phrase); got != tt.want {
			t.Errorf("ContainsPhrase(%q, %q) = %v, want %v", tt.text, tt.phrase, got, tt.want)
		}
	}
}
