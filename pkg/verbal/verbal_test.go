package verbal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tunegraph/tunegraph/pkg/types"
)

func TestVerbalize(t *testing.T) {
	v := NewVerbalizer(DefaultTemplates())

	tests := []struct {
		name   string
		triple types.Triple
		want   string
	}{
		{
			name:   "collaboration with quoted multi-word names",
			triple: types.Triple{Subject: "Taylor Swift", Relation: "COLLABORATES_WITH", Object: "Ed Sheeran"},
			want:   `"Taylor Swift" collaborated with "Ed Sheeran"`,
		},
		{
			name:   "single-word names stay bare",
			triple: types.Triple{Subject: "Adele", Relation: "SIGNED_WITH", Object: "XL"},
			want:   "Adele is signed with XL",
		},
		{
			name:   "track on album",
			triple: types.Triple{Subject: "Style", Relation: "PART_OF", Object: "1989"},
			want:   "Style is a track on 1989",
		},
		{
			name:   "unknown relation falls back to the generic template",
			triple: types.Triple{Subject: "Adele", Relation: "INSPIRED_BY", Object: "Dylan"},
			want:   "Adele is connected to Dylan through Inspired by",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Verbalize(tt.triple); got != tt.want {
				t.Errorf("Verbalize = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatEntityName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Adele", "Adele"},
		{"Taylor Swift", `"Taylor Swift"`},
		{"Panic! (At The Disco)", `"Panic! (At The Disco)"`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := formatEntityName(tt.in); got != tt.want {
			t.Errorf("formatEntityName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadTemplates(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		templates, err := LoadTemplates(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadTemplates: %v", err)
		}
		if len(templates.Relations["COLLABORATES_WITH"]) == 0 {
			t.Error("defaults missing collaboration templates")
		}
	})

	t.Run("file overrides relations", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "templates.yaml")
		content := "relations:\n  COLLABORATES_WITH:\n    - \"{subject} worked alongside {object}\"\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		templates, err := LoadTemplates(path)
		if err != nil {
			t.Fatalf("LoadTemplates: %v", err)
		}
		v := NewVerbalizer(templates)
		got := v.Verbalize(types.Triple{Subject: "Adele", Relation: "COLLABORATES_WITH", Object: "Sia"})
		if got != "Adele worked alongside Sia" {
			t.Errorf("Verbalize with override = %q", got)
		}
		// Default templates survive a relations-only override.
		if len(templates.Default) == 0 {
			t.Error("default templates lost on partial override")
		}
	})
}

func rankedPath(names []string, relations []string) types.RankedPath {
	p := types.PathRecord{NodeNames: names, RelationTypes: relations, Length: len(names) - 1}
	return types.RankedPath{Path: p, Triples: p.Triples()}
}

func TestBuildContext(t *testing.T) {
	b := NewContextBuilder(NewVerbalizer(DefaultTemplates()))

	t.Run("empty input yields the fallback", func(t *testing.T) {
		if got := b.Build(nil); got != FallbackContext {
			t.Errorf("Build(nil) = %q", got)
		}
	})

	t.Run("paths with no triples yield the fallback", func(t *testing.T) {
		got := b.Build([]types.RankedPath{rankedPath([]string{"Adele"}, nil)})
		if got != FallbackContext {
			t.Errorf("Build = %q", got)
		}
	})

	t.Run("each path is one sentence, paths join with newlines", func(t *testing.T) {
		got := b.Build([]types.RankedPath{
			rankedPath([]string{"Taylor Swift", "Ed Sheeran"}, []string{"COLLABORATES_WITH"}),
			rankedPath([]string{"Adele", "XL"}, []string{"SIGNED_WITH"}),
		})
		want := "\"Taylor Swift\" collaborated with \"Ed Sheeran\".\nAdele is signed with XL."
		if got != want {
			t.Errorf("Build = %q, want %q", got, want)
		}
	})

	t.Run("two facts in one path join with and", func(t *testing.T) {
		got := b.Build([]types.RankedPath{
			rankedPath([]string{"Adele", "XL", "Beggars"}, []string{"SIGNED_WITH", "SIGNED_WITH"}),
		})
		want := "Adele is signed with XL and XL is signed with Beggars."
		if got != want {
			t.Errorf("Build = %q, want %q", got, want)
		}
	})

	t.Run("three or more facts form a comma list", func(t *testing.T) {
		got := b.Build([]types.RankedPath{
			rankedPath(
				[]string{"Adele", "XL", "Beggars", "Matador"},
				[]string{"SIGNED_WITH", "SIGNED_WITH", "SIGNED_WITH"},
			),
		})
		want := "Adele is signed with XL, XL is signed with Beggars, and Beggars is signed with Matador."
		if got != want {
			t.Errorf("Build = %q, want %q", got, want)
		}
	})
}

func TestBuildContextBudget(t *testing.T) {
	b := NewContextBuilder(NewVerbalizer(DefaultTemplates()), WithMaxContextLength(120))

	var paths []types.RankedPath
	for i := 0; i < 10; i++ {
		paths = append(paths, rankedPath(
			[]string{"Some Fairly Long Artist Name", "Another Quite Long Album Title"},
			[]string{"PERFORMS_ON"},
		))
	}
	got := b.Build(paths)

	if len(got) > 120+len("...") {
		t.Errorf("context length %d exceeds budget", len(got))
	}
	if got == FallbackContext {
		t.Error("expected rendered context, got fallback")
	}
}

func TestBuildContextBudgetCountsRunes(t *testing.T) {
	b := NewContextBuilder(NewVerbalizer(DefaultTemplates()), WithMaxContextLength(120))

	// 106 runes once rendered, but well over 120 bytes.
	name := strings.Repeat("Thị Ngọc ", 4) + "Thịnh"
	got := b.Build([]types.RankedPath{
		rankedPath([]string{name, name}, []string{"COLLABORATES_WITH"}),
	})

	if strings.Contains(got, "...") {
		t.Errorf("sentence within the rune budget was truncated: %q", got)
	}
	if n := utf8.RuneCountInString(got); n > 120 {
		t.Errorf("context runs %d runes, budget 120", n)
	}
}

func TestBuildContextTriplesPerPath(t *testing.T) {
	b := NewContextBuilder(NewVerbalizer(DefaultTemplates()), WithMaxTriplesPerPath(1))

	got := b.Build([]types.RankedPath{
		rankedPath([]string{"A", "B", "C"}, []string{"SIGNED_WITH", "SIGNED_WITH"}),
	})
	if strings.Count(got, "signed with") != 1 {
		t.Errorf("expected a single sentence, got %q", got)
	}
}

func TestTruncateAtBoundary(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		if got := truncateAtBoundary("short", 100); got != "short" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("cuts at a late word boundary", func(t *testing.T) {
		text := strings.Repeat("word ", 40)
		got := truncateAtBoundary(text, 52)
		if !strings.HasSuffix(got, "...") {
			t.Errorf("missing ellipsis: %q", got)
		}
		if len(got) > 52+len("...") {
			t.Errorf("length %d exceeds max", len(got))
		}
		if strings.HasSuffix(strings.TrimSuffix(got, "..."), "wor") {
			t.Errorf("cut mid-word: %q", got)
		}
	})

	t.Run("hard cut when no boundary is close", func(t *testing.T) {
		text := strings.Repeat("x", 200)
		got := truncateAtBoundary(text, 50)
		if got != strings.Repeat("x", 50)+"..." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("multi-byte text measures in runes", func(t *testing.T) {
		text := strings.Repeat("Ngọc ", 40)
		got := truncateAtBoundary(text, 52)
		if !strings.HasSuffix(got, "...") {
			t.Errorf("missing ellipsis: %q", got)
		}
		if !utf8.ValidString(got) {
			t.Errorf("invalid UTF-8: %q", got)
		}
		if n := utf8.RuneCountInString(got); n > 52+len("...") {
			t.Errorf("length %d runes exceeds max", n)
		}
		if strings.HasSuffix(strings.TrimSuffix(got, "..."), "Ng") {
			t.Errorf("cut mid-word: %q", got)
		}
	})
}
