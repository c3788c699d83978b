package tunegraph

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tunegraph/tunegraph/pkg/answer"
	"github.com/tunegraph/tunegraph/pkg/assembler"
	"github.com/tunegraph/tunegraph/pkg/extract"
	"github.com/tunegraph/tunegraph/pkg/graph"
	"github.com/tunegraph/tunegraph/pkg/rank"
	"github.com/tunegraph/tunegraph/pkg/store"
	"github.com/tunegraph/tunegraph/pkg/telemetry"
	"github.com/tunegraph/tunegraph/pkg/types"
	"github.com/tunegraph/tunegraph/pkg/verbal"
)

var (
	// ErrEntityNotFound is returned when a named entity has no node.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrNoAnswerer is returned when Ask is called without a chat model.
	ErrNoAnswerer = errors.New("no answerer configured")
)

// Client is the main entry point for querying a music knowledge graph.
// It wires entity extraction, path retrieval, ranking, and verbalization
// into one retrieval pipeline on top of a Neo4j store.
type Client struct {
	store     *store.Store
	extractor *extract.Extractor
	ranker    *rank.Ranker
	builder   *verbal.ContextBuilder
	answerer  answer.Answerer
	recorder  *telemetry.Recorder
	config    *Config
	logger    *slog.Logger
}

// Config holds configuration for the Client.
type Config struct {
	// MaxHops bounds the path search between extracted entities.
	MaxHops int
	// TopK is how many ranked paths feed the context builder.
	TopK int
	// Keywords drive path ranking; zero value means built-in defaults.
	Keywords rank.KeywordTables
	// Templates drive verbalization; zero value means built-in defaults.
	Templates verbal.Templates
	// ContextOptions tune the context builder.
	ContextOptions []verbal.ContextOption
	// Answerer generates answers from retrieved context. Optional.
	Answerer answer.Answerer
	// Recorder persists retrieval events for offline analysis. Optional.
	Recorder *telemetry.Recorder
}

// NewClient creates a Client over the given store.
func NewClient(graphStore *store.Store, config *Config, logger *slog.Logger) (*Client, error) {
	if graphStore == nil {
		return nil, errors.New("store must not be nil")
	}
	if config == nil {
		config = &Config{}
	}
	if config.MaxHops <= 0 {
		config.MaxHops = store.DefaultMaxHops
	}
	if config.TopK <= 0 {
		config.TopK = rank.DefaultTopK
	}
	if config.Keywords.RelationKeywords == nil {
		config.Keywords = rank.DefaultKeywordTables()
	}
	if config.Templates.Relations == nil {
		config.Templates = verbal.DefaultTemplates()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		store:     graphStore,
		extractor: extract.New(),
		ranker:    rank.New(config.Keywords),
		builder:   verbal.NewContextBuilder(verbal.NewVerbalizer(config.Templates), config.ContextOptions...),
		answerer:  config.Answerer,
		recorder:  config.Recorder,
		config:    config,
		logger:    logger,
	}, nil
}

// Store returns the underlying graph store.
func (c *Client) Store() *store.Store {
	return c.store
}

// Close flushes telemetry and releases the underlying store connection.
func (c *Client) Close(ctx context.Context) error {
	if c.recorder != nil {
		if err := c.recorder.Close(); err != nil {
			c.logger.Warn("failed to flush telemetry", "error", err)
		}
	}
	return c.store.Close(ctx)
}

// BuildGraph assembles parsed input tables into an in-memory graph model.
func BuildGraph(tables *types.InputTables, opts *assembler.Options) (*graph.Model, *assembler.Stats, error) {
	a := assembler.New(opts)
	model, err := a.Assemble(tables)
	if err != nil {
		return nil, nil, err
	}
	return model, a.Stats(), nil
}

// ImportGraph replaces the store contents with the given model.
func (c *Client) ImportGraph(ctx context.Context, model *graph.Model) (*store.ImportStats, error) {
	return c.store.Import(ctx, model)
}
