// Package export serializes an assembled graph model into node and edge
// table artifacts for bulk loading into the graph store.
//
// Export is a pure projection: running it twice on the same model yields
// identical tables. Node tables are emitted per kind, only when the kind has
// at least one instance; all edges share one table.
package export

import (
	"strconv"

	"github.com/tunegraph/tunegraph/pkg/graph"
	"github.com/tunegraph/tunegraph/pkg/types"
)

// Table is one exported artifact: a named column set plus string rows.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Artifacts bundles everything a bulk load needs.
type Artifacts struct {
	// NodeTables holds one table per node kind that has instances.
	NodeTables map[types.NodeKind]*Table
	// EdgeTable holds every edge with its type and weight.
	EdgeTable *Table
}

// EdgeColumns is the fixed schema of the edge table. Optional columns are
// blank for relation kinds that do not carry them.
var EdgeColumns = []string{
	"from", "to", "type", "weight",
	"shared_albums", "shared_songs", "track_number", "status", "year",
}

var nodeColumns = map[types.NodeKind][]string{
	types.ArtistNode:      {"id", "name", "genres", "instruments", "active_years", "url"},
	types.BandNode:        {"id", "name", "url", "classification_confidence"},
	types.AlbumNode:       {"id", "title"},
	types.SongNode:        {"id", "title", "duration", "track_number", "album_id", "featured_artists"},
	types.GenreNode:       {"id", "name", "normalized_name", "count"},
	types.RecordLabelNode: {"id", "name"},
	types.AwardNode:       {"id", "name", "ceremony", "category", "year"},
}

var nodeTableNames = map[types.NodeKind]string{
	types.ArtistNode:      "artists",
	types.BandNode:        "bands",
	types.AlbumNode:       "albums",
	types.SongNode:        "songs",
	types.GenreNode:       "genres",
	types.RecordLabelNode: "record_labels",
	types.AwardNode:       "awards",
}

// Export projects the model into bulk-load artifacts.
func Export(model *graph.Model) *Artifacts {
	artifacts := &Artifacts{
		NodeTables: make(map[types.NodeKind]*Table),
		EdgeTable:  &Table{Name: "edges", Columns: EdgeColumns},
	}

	for _, kind := range types.NodeKinds {
		nodes := model.NodesOfKind(kind)
		if len(nodes) == 0 {
			continue
		}
		table := &Table{Name: nodeTableNames[kind], Columns: nodeColumns[kind]}
		for _, node := range nodes {
			table.Rows = append(table.Rows, nodeRow(node))
		}
		artifacts.NodeTables[kind] = table
	}

	for _, edge := range model.Edges() {
		artifacts.EdgeTable.Rows = append(artifacts.EdgeTable.Rows, edgeRow(edge))
	}
	return artifacts
}

func nodeRow(n *types.Node) []string {
	switch n.Kind {
	case types.ArtistNode:
		return []string{n.ID, n.Name, joinSemicolon(n.Genres), n.Instruments, n.ActiveYears, n.URL}
	case types.BandNode:
		return []string{n.ID, n.Name, n.URL, formatFloat(n.ClassificationConfidence)}
	case types.AlbumNode:
		return []string{n.ID, n.Title}
	case types.SongNode:
		return []string{n.ID, n.Title, n.Duration, n.TrackNumber, n.AlbumID, joinSemicolon(n.FeaturedArtists)}
	case types.GenreNode:
		return []string{n.ID, n.Name, n.NormalizedName, strconv.Itoa(n.Count)}
	case types.RecordLabelNode:
		return []string{n.ID, n.Name}
	case types.AwardNode:
		return []string{n.ID, n.Name, n.Ceremony, n.Category, formatYear(n.Year)}
	default:
		return []string{n.ID, n.DisplayName()}
	}
}

func edgeRow(e *types.Edge) []string {
	row := []string{e.From, e.To, string(e.Kind), formatFloat(e.Weight()), "", "", "", "", ""}
	switch e.Kind {
	case types.CollaboratesWith:
		row[4] = strconv.Itoa(e.SharedAlbums)
		row[5] = strconv.Itoa(e.SharedSongs)
	case types.PartOf:
		row[6] = e.TrackNumber
	case types.AwardNomination:
		row[7] = e.Status
		row[8] = formatYear(e.Year)
	}
	return row
}

func joinSemicolon(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ";"
		}
		out += p
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatYear(year *int) string {
	if year == nil {
		return ""
	}
	return strconv.Itoa(*year)
}
