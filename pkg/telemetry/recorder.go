// Package telemetry records retrieval events to Parquet files for offline
// analysis of query quality.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
)

// RetrievalEvent is one retrieval run, flattened for Parquet storage.
type RetrievalEvent struct {
	ID           string    `parquet:"id"`
	Timestamp    time.Time `parquet:"timestamp"`
	Query        string    `parquet:"query"`
	Entities     string    `parquet:"entities"` // semicolon-joined
	AllPaths     int       `parquet:"all_paths"`
	RankedPaths  int       `parquet:"ranked_paths"`
	ContextChars int       `parquet:"context_chars"`
	Outcome      string    `parquet:"outcome"` // "", no_entities, no_paths
	DurationMS   int64     `parquet:"duration_ms"`
}

// Recorder buffers retrieval events and writes them to timestamped Parquet
// files. Safe for concurrent use.
type Recorder struct {
	outputDir string
	batchSize int

	mu     sync.Mutex
	buffer []RetrievalEvent
}

// NewRecorder creates a Recorder writing into outputDir.
func NewRecorder(outputDir string) (*Recorder, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	return &Recorder{
		outputDir: outputDir,
		batchSize: 100,
		buffer:    make([]RetrievalEvent, 0, 100),
	}, nil
}

// Record buffers one event, assigning id and timestamp when absent, and
// flushes when the batch is full.
func (r *Recorder) Record(event RetrievalEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, event)
	if len(r.buffer) >= r.batchSize {
		return r.flush()
	}
	return nil
}

// Close flushes any buffered events.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flush()
}

// flush writes the current buffer to a new Parquet file.
// Caller must hold the lock.
func (r *Recorder) flush() error {
	if len(r.buffer) == 0 {
		return nil
	}

	filename := fmt.Sprintf("retrieval_events_%s_%d.parquet",
		time.Now().Format("20060102_150405"), time.Now().UnixNano())
	path := filepath.Join(r.outputDir, filename)

	if err := parquet.WriteFile(path, r.buffer); err != nil {
		return fmt.Errorf("failed to write telemetry parquet file: %w", err)
	}

	r.buffer = r.buffer[:0]
	return nil
}
