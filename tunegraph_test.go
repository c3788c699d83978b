package tunegraph

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/tunegraph/tunegraph/pkg/rank"
	"github.com/tunegraph/tunegraph/pkg/store"
	"github.com/tunegraph/tunegraph/pkg/types"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	// The driver connects lazily, so retrieval paths that never reach the
	// database can run against an unreachable URI.
	s, err := store.NewStore(store.Options{
		URI:    "bolt://localhost:7687",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func testClient(t *testing.T, cfg *Config) *Client {
	t.Helper()
	client, err := NewClient(testStore(t), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("nil store is rejected", func(t *testing.T) {
		if _, err := NewClient(nil, nil, nil); err == nil {
			t.Error("expected error for nil store")
		}
	})

	t.Run("nil config gets defaults", func(t *testing.T) {
		client := testClient(t, nil)
		if client.config.MaxHops != store.DefaultMaxHops {
			t.Errorf("max hops = %d, want %d", client.config.MaxHops, store.DefaultMaxHops)
		}
		if client.config.TopK != rank.DefaultTopK {
			t.Errorf("top k = %d, want %d", client.config.TopK, rank.DefaultTopK)
		}
	})

	t.Run("configured values survive", func(t *testing.T) {
		client := testClient(t, &Config{MaxHops: 2, TopK: 7})
		if client.config.MaxHops != 2 || client.config.TopK != 7 {
			t.Errorf("config = %+v", client.config)
		}
	})
}

func TestRetrieveContextNoEntities(t *testing.T) {
	client := testClient(t, nil)

	result := client.RetrieveContext(context.Background(), "what genres overlap the most?", 0)

	if result.Error != types.RetrievalNoEntities {
		t.Errorf("outcome = %q, want %q", result.Error, types.RetrievalNoEntities)
	}
	if result.ContextText != "No entities found in query to search for." {
		t.Errorf("context = %q", result.ContextText)
	}
	if len(result.Entities) != 0 {
		t.Errorf("entities = %v, want none", result.Entities)
	}
}

func TestHopBound(t *testing.T) {
	client := testClient(t, &Config{MaxHops: 4})

	cases := []struct {
		name    string
		maxHops int
		want    int
	}{
		{"zero uses configured default", 0, 4},
		{"negative uses configured default", -1, 4},
		{"positive overrides per call", 2, 2},
		{"larger than default is honored", 6, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := client.hopBound(tc.maxHops); got != tc.want {
				t.Errorf("hopBound(%d) = %d, want %d", tc.maxHops, got, tc.want)
			}
		})
	}
}

func TestAskWithoutAnswerer(t *testing.T) {
	client := testClient(t, nil)

	_, _, err := client.Ask(context.Background(), "Did Taylor Swift win a Grammy?")
	if !errors.Is(err, ErrNoAnswerer) {
		t.Errorf("err = %v, want ErrNoAnswerer", err)
	}
}

type stubAnswerer struct {
	gotQuestion string
	gotContext  string
}

func (s *stubAnswerer) Answer(_ context.Context, question, graphContext string) (string, error) {
	s.gotQuestion = question
	s.gotContext = graphContext
	return "stub answer", nil
}

func TestAskPassesRetrievedContext(t *testing.T) {
	stub := &stubAnswerer{}
	client := testClient(t, &Config{Answerer: stub})

	// A question with no extractable entities short-circuits before the
	// database, so the stub sees the no-entities context.
	answerText, result, err := client.Ask(context.Background(), "what is trending?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answerText != "stub answer" {
		t.Errorf("answer = %q", answerText)
	}
	if stub.gotQuestion != "what is trending?" {
		t.Errorf("question = %q", stub.gotQuestion)
	}
	if !strings.Contains(stub.gotContext, "No entities found") {
		t.Errorf("context = %q", stub.gotContext)
	}
	if result.Error != types.RetrievalNoEntities {
		t.Errorf("outcome = %q", result.Error)
	}
}

func TestBuildGraph(t *testing.T) {
	tables := &types.InputTables{
		Artists: []types.ArtistRow{
			{ID: "a1", Name: "Taylor Swift", Genres: "pop"},
			{ID: "a2", Name: "Ed Sheeran", Genres: "pop"},
		},
		Albums: map[string][]string{"Red": {"a1", "a2"}},
	}

	model, stats, err := BuildGraph(tables, nil)
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	if model.NodeCount() == 0 || model.EdgeCount() == 0 {
		t.Errorf("empty model: %d nodes, %d edges", model.NodeCount(), model.EdgeCount())
	}
	if stats.RunID == "" {
		t.Error("missing run id")
	}
	if stats.Nodes != model.NodeCount() {
		t.Errorf("stats nodes = %d, model = %d", stats.Nodes, model.NodeCount())
	}
}

func TestBuildGraphRequiresTables(t *testing.T) {
	if _, _, err := BuildGraph(nil, nil); err == nil {
		t.Error("expected error for nil tables")
	}
}
