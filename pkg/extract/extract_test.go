package extract

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "quoted names take precedence over everything else",
			text: `Did "Taylor Swift" work with "Ed Sheeran" on Red?`,
			want: []string{"Taylor Swift", "Ed Sheeran"},
		},
		{
			name: "quoted names are deduplicated",
			text: `Is "Adele" the same "Adele" from the nineties?`,
			want: []string{"Adele"},
		},
		{
			name: "capitalized unigrams and bigrams",
			text: "Did Taylor Swift collaborate with Ed Sheeran?",
			want: []string{"Taylor", "Swift", "Ed", "Sheeran", "Taylor Swift", "Ed Sheeran"},
		},
		{
			name: "question words are dropped",
			text: "Who is Adele?",
			want: []string{"Adele"},
		},
		{
			name: "no capitalized words",
			text: "what genres overlap the most?",
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
