package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tunegraph/tunegraph/pkg/graph"
	"github.com/tunegraph/tunegraph/pkg/types"
)

func testModel(t *testing.T) *graph.Model {
	t.Helper()
	m := graph.NewModel()
	nodes := []*types.Node{
		{ID: "artist_0", Kind: types.ArtistNode, Name: "Taylor Swift", Genres: []string{"pop", "country"}, URL: "https://example.com/ts"},
		{ID: "artist_1", Kind: types.ArtistNode, Name: "Ed Sheeran", Genres: []string{"pop"}},
		{ID: "album_0", Kind: types.AlbumNode, Title: "Red"},
		{ID: "song_s1", Kind: types.SongNode, Title: "Everything Has Changed", AlbumID: "album_0"},
		{ID: "award_aw1", Kind: types.AwardNode, Name: "Album of the Year", Ceremony: "Grammy", Category: "Album of the Year"},
	}
	for _, n := range nodes {
		if err := m.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}

	year := 2016
	edges := []*types.Edge{
		{From: "artist_0", To: "artist_1", Kind: types.CollaboratesWith, SharedAlbums: 1, SharedSongs: 2},
		{From: "artist_0", To: "artist_1", Kind: types.SimilarGenre, Similarity: 0.5},
		{From: "song_s1", To: "album_0", Kind: types.PartOf, TrackNumber: "14"},
		{From: "artist_0", To: "award_aw1", Kind: types.AwardNomination, Status: types.StatusWon, Year: &year},
	}
	for _, e := range edges {
		if _, err := m.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s): %v", e.Kind, err)
		}
	}
	return m
}

func TestExportTables(t *testing.T) {
	artifacts := Export(testModel(t))

	artists, ok := artifacts.NodeTables[types.ArtistNode]
	if !ok {
		t.Fatal("missing artist table")
	}
	if len(artists.Rows) != 2 {
		t.Fatalf("artist rows = %d, want 2", len(artists.Rows))
	}
	want := []string{"artist_0", "Taylor Swift", "pop;country", "", "", "https://example.com/ts"}
	if !reflect.DeepEqual(artists.Rows[0], want) {
		t.Errorf("artist row = %v, want %v", artists.Rows[0], want)
	}

	// Kinds with no instances emit no table.
	if _, ok := artifacts.NodeTables[types.BandNode]; ok {
		t.Error("unexpected band table")
	}
	if _, ok := artifacts.NodeTables[types.RecordLabelNode]; ok {
		t.Error("unexpected record label table")
	}
}

func TestExportEdgeRows(t *testing.T) {
	artifacts := Export(testModel(t))

	rows := artifacts.EdgeTable.Rows
	if len(rows) != 4 {
		t.Fatalf("edge rows = %d, want 4", len(rows))
	}

	byType := make(map[string][]string)
	for _, row := range rows {
		byType[row[2]] = row
	}

	collab := byType["COLLABORATES_WITH"]
	if collab[3] != "3" || collab[4] != "1" || collab[5] != "2" {
		t.Errorf("collaboration row = %v", collab)
	}
	similar := byType["SIMILAR_GENRE"]
	if similar[3] != "0.5" || similar[4] != "" {
		t.Errorf("similar row = %v", similar)
	}
	partOf := byType["PART_OF"]
	if partOf[3] != "1" || partOf[6] != "14" {
		t.Errorf("part_of row = %v", partOf)
	}
	award := byType["AWARD_NOMINATION"]
	if award[7] != types.StatusWon || award[8] != "2016" {
		t.Errorf("award row = %v", award)
	}
}

func TestExportDeterministic(t *testing.T) {
	model := testModel(t)
	first := Export(model)
	second := Export(model)

	if !reflect.DeepEqual(first.EdgeTable.Rows, second.EdgeTable.Rows) {
		t.Error("edge rows differ between runs")
	}
	for kind, table := range first.NodeTables {
		if !reflect.DeepEqual(table.Rows, second.NodeTables[kind].Rows) {
			t.Errorf("%s rows differ between runs", kind)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	artifacts := Export(testModel(t))
	if err := artifacts.WriteCSV(dir); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	for _, name := range []string{"artists.csv", "albums.csv", "songs.csv", "awards.csv", "edges.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "edges.csv"))
	if err != nil {
		t.Fatalf("open edges.csv: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read edges.csv: %v", err)
	}
	if !reflect.DeepEqual(records[0], EdgeColumns) {
		t.Errorf("edge header = %v, want %v", records[0], EdgeColumns)
	}
	if len(records) != 5 {
		t.Errorf("edge records = %d, want header + 4 rows", len(records))
	}
}

func TestWriteParquet(t *testing.T) {
	dir := t.TempDir()
	artifacts := Export(testModel(t))
	if err := artifacts.WriteParquet(dir); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	for _, name := range []string{"artists.parquet", "edges.parquet"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("artifact %s is empty", name)
		}
	}
}
