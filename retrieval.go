package tunegraph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tunegraph/tunegraph/pkg/rank"
	"github.com/tunegraph/tunegraph/pkg/telemetry"
	"github.com/tunegraph/tunegraph/pkg/types"
)

// RetrieveContext runs the full retrieval pipeline for a query: extract
// entity candidates, find paths of at most maxHops hops between them, rank
// the paths, and verbalize the best ones into a context string. A maxHops
// of zero or less uses the configured default. Empty extraction and empty
// path search are results, not errors; the returned payload always carries
// a usable context string.
func (c *Client) RetrieveContext(ctx context.Context, query string, maxHops int) *types.RetrievalResult {
	started := time.Now()
	result := c.retrieveContext(ctx, query, maxHops)
	c.recordRetrieval(query, result, time.Since(started))
	return result
}

// hopBound resolves a per-call hop limit against the configured default.
func (c *Client) hopBound(maxHops int) int {
	if maxHops <= 0 {
		return c.config.MaxHops
	}
	return maxHops
}

func (c *Client) retrieveContext(ctx context.Context, query string, maxHops int) *types.RetrievalResult {
	entities := c.extractor.Extract(query)
	if len(entities) == 0 {
		c.logger.Info("no entities extracted", "query", query)
		return &types.RetrievalResult{
			ContextText: "No entities found in query to search for.",
			Entities:    []string{},
			Error:       types.RetrievalNoEntities,
		}
	}
	c.logger.Debug("extracted entities", "entities", entities)

	paths := c.store.FindPaths(ctx, entities, c.hopBound(maxHops))
	if len(paths) == 0 {
		c.logger.Info("no paths found", "entities", entities)
		return &types.RetrievalResult{
			ContextText: "No connections found between entities: " + strings.Join(entities, ", "),
			Entities:    entities,
			Error:       types.RetrievalNoPaths,
		}
	}

	ranked := c.ranker.Rank(paths, query, entities)
	top := rank.FilterTop(ranked, c.config.TopK)
	contextText := c.builder.Build(top)

	c.logger.Info("retrieved context",
		"entities", len(entities), "paths", len(paths),
		"ranked", len(top), "context_chars", len(contextText))

	return &types.RetrievalResult{
		ContextText:      contextText,
		Paths:            top,
		Entities:         entities,
		AllPathsCount:    len(paths),
		RankedPathsCount: len(top),
	}
}

// recordRetrieval persists one retrieval event when telemetry is configured.
func (c *Client) recordRetrieval(query string, result *types.RetrievalResult, elapsed time.Duration) {
	if c.recorder == nil {
		return
	}
	event := telemetry.RetrievalEvent{
		Query:        query,
		Entities:     strings.Join(result.Entities, ";"),
		AllPaths:     result.AllPathsCount,
		RankedPaths:  result.RankedPathsCount,
		ContextChars: len(result.ContextText),
		Outcome:      result.Error,
		DurationMS:   elapsed.Milliseconds(),
	}
	if err := c.recorder.Record(event); err != nil {
		c.logger.Warn("failed to record retrieval event", "error", err)
	}
}

// Ask retrieves context for the question and generates an answer with the
// configured chat model.
func (c *Client) Ask(ctx context.Context, question string) (string, *types.RetrievalResult, error) {
	if c.answerer == nil {
		return "", nil, ErrNoAnswerer
	}

	result := c.RetrieveContext(ctx, question, 0)
	text, err := c.answerer.Answer(ctx, question, result.ContextText)
	if err != nil {
		return "", result, fmt.Errorf("failed to generate answer: %w", err)
	}
	return text, result, nil
}

// FindEntityConnections lists the direct relationships of a named entity.
func (c *Client) FindEntityConnections(ctx context.Context, name string, limit int) ([]types.Connection, error) {
	return c.store.EntityConnections(ctx, name, limit)
}

// GetEntityInfo returns the stored record for a named entity.
func (c *Client) GetEntityInfo(ctx context.Context, name string) (*types.EntityInfo, error) {
	info, err := c.store.EntityInfo(ctx, name)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, name)
	}
	return info, nil
}

// SearchSimilarEntities finds entities sharing genres with the named one.
func (c *Client) SearchSimilarEntities(ctx context.Context, name string, limit int) ([]types.Connection, error) {
	return c.store.SimilarEntities(ctx, name, limit)
}
