package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// WriteCSV writes every artifact table as <name>.csv under dir.
func (a *Artifacts) WriteCSV(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	for _, table := range a.NodeTables {
		if err := writeCSVTable(dir, table); err != nil {
			return err
		}
	}
	return writeCSVTable(dir, a.EdgeTable)
}

func writeCSVTable(dir string, table *Table) error {
	path := filepath.Join(dir, table.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", path, err)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row of %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// parquetEdge mirrors one edge table row for columnar storage.
type parquetEdge struct {
	From         string `parquet:"from"`
	To           string `parquet:"to"`
	Type         string `parquet:"type"`
	Weight       string `parquet:"weight"`
	SharedAlbums string `parquet:"shared_albums"`
	SharedSongs  string `parquet:"shared_songs"`
	TrackNumber  string `parquet:"track_number"`
	Status       string `parquet:"status"`
	Year         string `parquet:"year"`
}

// parquetNode mirrors one node table row. The table name distinguishes kinds,
// so the schema is the generic id/name pair plus the remaining columns as a
// single attributes column.
type parquetNode struct {
	ID    string `parquet:"id"`
	Name  string `parquet:"name"`
	Attrs string `parquet:"attributes"`
}

// WriteParquet mirrors the CSV artifacts as parquet files under dir, for
// downstream analytics that prefer columnar input.
func (a *Artifacts) WriteParquet(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	for _, table := range a.NodeTables {
		rows := make([]parquetNode, 0, len(table.Rows))
		for _, row := range table.Rows {
			pn := parquetNode{ID: row[0], Name: row[1]}
			for _, extra := range row[2:] {
				if pn.Attrs != "" {
					pn.Attrs += ";"
				}
				pn.Attrs += extra
			}
			rows = append(rows, pn)
		}
		path := filepath.Join(dir, table.Name+".parquet")
		if err := parquet.WriteFile(path, rows); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	edges := make([]parquetEdge, 0, len(a.EdgeTable.Rows))
	for _, row := range a.EdgeTable.Rows {
		edges = append(edges, parquetEdge{
			From: row[0], To: row[1], Type: row[2], Weight: row[3],
			SharedAlbums: row[4], SharedSongs: row[5],
			TrackNumber: row[6], Status: row[7], Year: row[8],
		})
	}
	path := filepath.Join(dir, "edges.parquet")
	if err := parquet.WriteFile(path, edges); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
