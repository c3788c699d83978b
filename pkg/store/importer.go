package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/tunegraph/tunegraph/pkg/graph"
	"github.com/tunegraph/tunegraph/pkg/types"
)

// ImportStats summarizes one bulk import run.
type ImportStats struct {
	NodesCreated int64
	EdgesCreated int64
	Elapsed      time.Duration
}

// Import replaces the database contents with the given model: it clears all
// existing nodes and relationships, ensures per-label id uniqueness
// constraints, then bulk-loads nodes and typed relationships in batches.
func (s *Store) Import(ctx context.Context, model *graph.Model) (*ImportStats, error) {
	started := time.Now()

	if err := s.clear(ctx); err != nil {
		return nil, err
	}
	if err := s.createConstraints(ctx); err != nil {
		return nil, err
	}

	var stats ImportStats
	for _, kind := range types.NodeKinds {
		nodes := model.NodesOfKind(kind)
		if len(nodes) == 0 {
			continue
		}
		created, err := s.importNodes(ctx, kind, nodes)
		if err != nil {
			return nil, fmt.Errorf("failed to import %s nodes: %w", kind, err)
		}
		stats.NodesCreated += created
		s.logger.Info("imported nodes", "kind", kind, "count", created)
	}

	byKind := make(map[types.EdgeKind][]*types.Edge)
	for _, edge := range model.Edges() {
		byKind[edge.Kind] = append(byKind[edge.Kind], edge)
	}
	for _, kind := range edgeKindOrder {
		edges := byKind[kind]
		if len(edges) == 0 {
			continue
		}
		created, err := s.importEdges(ctx, kind, edges)
		if err != nil {
			return nil, fmt.Errorf("failed to import %s edges: %w", kind, err)
		}
		stats.EdgesCreated += created
		s.logger.Info("imported edges", "kind", kind, "count", created)
	}

	stats.Elapsed = time.Since(started)
	if err := s.verifyCounts(ctx, &stats); err != nil {
		return &stats, err
	}
	s.logger.Info("import complete",
		"nodes", stats.NodesCreated, "edges", stats.EdgesCreated, "elapsed", stats.Elapsed)
	return &stats, nil
}

var edgeKindOrder = []types.EdgeKind{
	types.PerformsOn,
	types.CollaboratesWith,
	types.SimilarGenre,
	types.HasGenre,
	types.SignedWith,
	types.MemberOf,
	types.PartOf,
	types.AwardNomination,
}

// clear removes every node and relationship in the database.
func (s *Store) clear(ctx context.Context) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}
	s.logger.Info("cleared database")
	return nil
}

// createConstraints ensures a unique id constraint per node label.
func (s *Store) createConstraints(ctx context.Context) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	for _, kind := range types.NodeKinds {
		query := fmt.Sprintf(
			"CREATE CONSTRAINT IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE", kind)
		if _, err := session.Run(ctx, query, nil); err != nil {
			if !strings.Contains(err.Error(), "already exists") && !strings.Contains(err.Error(), "An equivalent") {
				return fmt.Errorf("failed to create constraint for %s: %w", kind, err)
			}
		}
	}
	return nil
}

func (s *Store) importNodes(ctx context.Context, kind types.NodeKind, nodes []*types.Node) (int64, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		UNWIND $rows AS row
		CREATE (n:%s)
		SET n = row
	`, kind)

	var created int64
	for start := 0; start < len(nodes); start += DefaultBatchSize {
		end := start + DefaultBatchSize
		if end > len(nodes) {
			end = len(nodes)
		}
		rows := make([]map[string]any, 0, end-start)
		for _, node := range nodes[start:end] {
			rows = append(rows, nodeProperties(node))
		}

		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, query, map[string]any{"rows": rows})
			return nil, err
		})
		if err != nil {
			return created, err
		}
		created += int64(len(rows))
	}
	return created, nil
}

func (s *Store) importEdges(ctx context.Context, kind types.EdgeKind, edges []*types.Edge) (int64, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	// Relationship types cannot be parameterized, so one query per kind.
	query := fmt.Sprintf(`
		UNWIND $rows AS row
		MATCH (a {id: row.from})
		MATCH (b {id: row.to})
		CREATE (a)-[r:%s]->(b)
		SET r = row.properties
	`, kind)

	var created int64
	for start := 0; start < len(edges); start += DefaultBatchSize {
		end := start + DefaultBatchSize
		if end > len(edges) {
			end = len(edges)
		}
		rows := make([]map[string]any, 0, end-start)
		for _, edge := range edges[start:end] {
			rows = append(rows, map[string]any{
				"from":       edge.From,
				"to":         edge.To,
				"properties": edgeProperties(edge),
			})
		}

		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, query, map[string]any{"rows": rows})
			return nil, err
		})
		if err != nil {
			return created, err
		}
		created += int64(len(rows))
	}
	return created, nil
}

// verifyCounts compares database totals against what the import created and
// logs a warning on mismatch. A mismatch is reported, not fatal.
func (s *Store) verifyCounts(ctx context.Context, stats *ImportStats) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (n)
			OPTIONAL MATCH ()-[r]->()
			RETURN count(DISTINCT n) AS nodes, count(DISTINCT r) AS edges
		`, nil)
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to verify import counts: %w", err)
	}

	record := result.(*neo4j.Record)
	nodesValue, _ := record.Get("nodes")
	edgesValue, _ := record.Get("edges")
	nodes, _ := nodesValue.(int64)
	edges, _ := edgesValue.(int64)

	if nodes != stats.NodesCreated || edges != stats.EdgesCreated {
		s.logger.Warn("import count mismatch",
			"expected_nodes", stats.NodesCreated, "actual_nodes", nodes,
			"expected_edges", stats.EdgesCreated, "actual_edges", edges)
	}
	return nil
}

// nodeProperties flattens a node into the property map stored on its Neo4j
// node. Every node carries id and name; the rest depends on the kind.
func nodeProperties(node *types.Node) map[string]any {
	props := map[string]any{
		"id":   node.ID,
		"name": node.DisplayName(),
	}
	switch node.Kind {
	case types.ArtistNode:
		setIfPresent(props, "genres", strings.Join(node.Genres, ";"))
		setIfPresent(props, "instruments", node.Instruments)
		setIfPresent(props, "active_years", node.ActiveYears)
		setIfPresent(props, "url", node.URL)
	case types.BandNode:
		setIfPresent(props, "url", node.URL)
		if node.ClassificationConfidence > 0 {
			props["classification_confidence"] = node.ClassificationConfidence
		}
	case types.SongNode:
		setIfPresent(props, "duration", node.Duration)
		setIfPresent(props, "album_id", node.AlbumID)
		setIfPresent(props, "featured_artists", strings.Join(node.FeaturedArtists, ";"))
	case types.GenreNode:
		setIfPresent(props, "normalized_name", node.NormalizedName)
		if node.Count > 0 {
			props["count"] = int64(node.Count)
		}
	case types.AwardNode:
		setIfPresent(props, "ceremony", node.Ceremony)
		setIfPresent(props, "category", node.Category)
		if node.Year != nil {
			props["year"] = int64(*node.Year)
		}
	}
	return props
}

func edgeProperties(edge *types.Edge) map[string]any {
	props := map[string]any{
		"weight": edge.Weight(),
	}
	switch edge.Kind {
	case types.CollaboratesWith:
		props["shared_albums"] = int64(edge.SharedAlbums)
		props["shared_songs"] = int64(edge.SharedSongs)
	case types.SimilarGenre:
		props["similarity"] = edge.Similarity
	case types.PartOf:
		setIfPresent(props, "track_number", edge.TrackNumber)
	case types.AwardNomination:
		setIfPresent(props, "status", edge.Status)
		if edge.Year != nil {
			props["year"] = int64(*edge.Year)
		}
	}
	return props
}

func setIfPresent(props map[string]any, key, value string) {
	if value != "" {
		props[key] = value
	}
}
