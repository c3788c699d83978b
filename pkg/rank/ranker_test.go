package rank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tunegraph/tunegraph/pkg/types"
)

func TestScoreBounds(t *testing.T) {
	r := New(DefaultKeywordTables())

	paths := []types.PathRecord{
		{NodeNames: []string{"Taylor Swift", "Ed Sheeran"}, RelationTypes: []string{"COLLABORATES_WITH"}, Length: 1},
		{NodeNames: []string{"Grammy Winner", "Billboard Top"}, RelationTypes: []string{"AWARD_NOMINATION"}, Length: 1},
		{NodeNames: []string{"A", "B", "C", "D"}, RelationTypes: []string{"HAS_GENRE", "HAS_GENRE", "HAS_GENRE"}, Length: 3},
	}
	ranked := r.Rank(paths, "Did Taylor Swift win a grammy award?", []string{"Taylor Swift"})

	for _, rp := range ranked {
		if rp.Score < 0 || rp.Score > 1 {
			t.Errorf("score %f out of [0,1] for path %v", rp.Score, rp.Path.NodeNames)
		}
	}
}

func TestRankOrdering(t *testing.T) {
	r := New(DefaultKeywordTables())
	query := "Did Taylor Swift collaborate with Ed Sheeran?"
	entities := []string{"Taylor Swift", "Ed Sheeran"}

	paths := []types.PathRecord{
		// Matches no entity and an irrelevant relation.
		{NodeNames: []string{"Slipknot", "Metal"}, RelationTypes: []string{"HAS_GENRE"}, Length: 1},
		// Matches both entities and the relation the query asks about.
		{NodeNames: []string{"Taylor Swift", "Ed Sheeran"}, RelationTypes: []string{"COLLABORATES_WITH"}, Length: 1},
		// Matches one entity only.
		{NodeNames: []string{"Taylor Swift", "Red"}, RelationTypes: []string{"PERFORMS_ON"}, Length: 1},
	}

	ranked := r.Rank(paths, query, entities)

	if got := ranked[0].Path.NodeNames[1]; got != "Ed Sheeran" {
		t.Errorf("top path ends at %q, want the full-match collaboration path", got)
	}
	if ranked[0].Score <= ranked[1].Score || ranked[1].Score <= ranked[2].Score {
		t.Errorf("scores not strictly ordered: %f, %f, %f", ranked[0].Score, ranked[1].Score, ranked[2].Score)
	}
	if len(ranked[0].Triples) != 1 {
		t.Errorf("triples = %d, want 1", len(ranked[0].Triples))
	}
}

func TestRankStableOnTies(t *testing.T) {
	r := New(DefaultKeywordTables())

	// Identical paths score identically; stable sort keeps input order.
	paths := []types.PathRecord{
		{NodeNames: []string{"First", "Other"}, RelationTypes: []string{"HAS_GENRE"}, Length: 1},
		{NodeNames: []string{"Second", "Other"}, RelationTypes: []string{"HAS_GENRE"}, Length: 1},
	}
	ranked := r.Rank(paths, "unrelated question", nil)

	if ranked[0].Path.NodeNames[0] != "First" || ranked[1].Path.NodeNames[0] != "Second" {
		t.Errorf("tie order changed: %v then %v", ranked[0].Path.NodeNames, ranked[1].Path.NodeNames)
	}
}

func TestFilterTop(t *testing.T) {
	ranked := make([]types.RankedPath, 8)

	if got := len(FilterTop(ranked, 3)); got != 3 {
		t.Errorf("FilterTop(8, 3) = %d, want 3", got)
	}
	if got := len(FilterTop(ranked, 0)); got != DefaultTopK {
		t.Errorf("FilterTop(8, 0) = %d, want default %d", got, DefaultTopK)
	}
	if got := len(FilterTop(ranked[:2], 5)); got != 2 {
		t.Errorf("FilterTop(2, 5) = %d, want 2", got)
	}
}

func TestLoadKeywordTables(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		tables, err := LoadKeywordTables("")
		if err != nil {
			t.Fatalf("LoadKeywordTables: %v", err)
		}
		if len(tables.RelationKeywords["COLLABORATES_WITH"]) == 0 {
			t.Error("defaults missing collaboration keywords")
		}
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		tables, err := LoadKeywordTables(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadKeywordTables: %v", err)
		}
		if len(tables.ImportanceIndicators) == 0 {
			t.Error("defaults missing importance indicators")
		}
	})

	t.Run("file overrides tables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keywords.yaml")
		content := "relation_keywords:\n  COLLABORATES_WITH: [\"duet\"]\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		tables, err := LoadKeywordTables(path)
		if err != nil {
			t.Fatalf("LoadKeywordTables: %v", err)
		}
		if got := tables.RelationKeywords["COLLABORATES_WITH"]; len(got) != 1 || got[0] != "duet" {
			t.Errorf("override not applied: %v", got)
		}
		// Untouched sections keep built-in defaults.
		if len(tables.ImportanceIndicators) == 0 {
			t.Error("importance indicators lost on partial override")
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("relation_keywords: [not a map"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadKeywordTables(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
