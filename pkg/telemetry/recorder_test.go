package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func parquetFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".parquet") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files
}

func TestRecorderFlushOnClose(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	if err := r.Record(RetrievalEvent{Query: "Did Taylor Swift collaborate with Ed Sheeran?", RankedPaths: 3}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// Under the batch size nothing is written yet.
	if files := parquetFiles(t, dir); len(files) != 0 {
		t.Errorf("unexpected files before close: %v", files)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	files := parquetFiles(t, dir)
	if len(files) != 1 {
		t.Fatalf("files after close = %d, want 1", len(files))
	}
	info, err := os.Stat(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("telemetry file is empty")
	}
}

func TestRecorderFlushOnFullBatch(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(dir)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	r.batchSize = 2

	if err := r.Record(RetrievalEvent{Query: "first"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Record(RetrievalEvent{Query: "second"}); err != nil {
		t.Fatal(err)
	}

	if files := parquetFiles(t, dir); len(files) != 1 {
		t.Fatalf("files after full batch = %d, want 1", len(files))
	}

	// Closing with an empty buffer writes nothing new.
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if files := parquetFiles(t, dir); len(files) != 1 {
		t.Errorf("files after close = %d, want still 1", len(files))
	}
}
