package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitClaims(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "multiple sentences",
			text: "The Great Wall is visible from space. Vaccines cause autism! Is tea bad?",
			want: []string{"The Great Wall is visible from space", "Vaccines cause autism"},
		},
		{
			name: "newlines split claims",
			text: "Einstein failed mathematics at school\nHumans use only ten percent of their brains",
			want: []string{"Einstein failed mathematics at school", "Humans use only ten percent of their brains"},
		},
		{
			name: "short text kept whole",
			text: "  Water is wet.  ",
			want: []string{"Water is wet."},
		},
		{
			name: "duplicates dropped",
			text: "Lightning never strikes twice. lightning never strikes twice.",
			want: []string{"Lightning never strikes twice"},
		},
		{
			name: "whitespace collapsed",
			text: "The   moon landing   was staged in a studio.",
			want: []string{"The moon landing was staged in a studio"},
		},
		{
			name: "empty",
			text: "   \n ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitClaims(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitClaims(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}
