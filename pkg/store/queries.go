package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/tunegraph/tunegraph/pkg/types"
)

// FindPaths retrieves undirected paths of 1..maxHops hops whose endpoints
// are distinct nodes named in entityNames, shortest first, capped at
// DefaultPathLimit. Query failures degrade to an empty result; the cause is
// logged, not returned, so retrieval can fall through to its no-paths answer.
func (s *Store) FindPaths(ctx context.Context, entityNames []string, maxHops int) []types.PathRecord {
	if len(entityNames) == 0 {
		return nil
	}
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}

	// Variable-length bounds cannot be parameterized in Cypher.
	query := fmt.Sprintf(`
		MATCH path = (start)-[*1..%d]-(end)
		WHERE start.name IN $entity_names
		  AND end.name IN $entity_names
		  AND start <> end
		RETURN [node IN nodes(path) | node.name] AS node_names,
		       [rel IN relationships(path) | type(rel)] AS relation_types,
		       length(path) AS path_length
		ORDER BY path_length
		LIMIT $limit
	`, maxHops)

	result, err := s.executeRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{
			"entity_names": entityNames,
			"limit":        DefaultPathLimit,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		s.logger.Warn("path query failed", "entities", entityNames, "error", err)
		return nil
	}

	records := result.([]*db.Record)
	paths := make([]types.PathRecord, 0, len(records))
	for _, record := range records {
		path := types.PathRecord{
			NodeNames:     stringList(record, "node_names"),
			RelationTypes: stringList(record, "relation_types"),
		}
		if lengthValue, found := record.Get("path_length"); found {
			if length, ok := lengthValue.(int64); ok {
				path.Length = int(length)
			}
		}
		if len(path.NodeNames) == 0 {
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

// EntityConnections lists the direct relationships of the named entity.
func (s *Store) EntityConnections(ctx context.Context, name string, limit int) ([]types.Connection, error) {
	if limit <= 0 {
		return nil, types.ErrInvalidLimit
	}

	result, err := s.executeRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (e {name: $name})-[r]-(other)
			RETURN type(r) AS relation, other.name AS other_name, labels(other) AS other_labels
			LIMIT $limit
		`, map[string]any{
			"name":  name,
			"limit": limit,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query connections for %q: %w", name, err)
	}

	records := result.([]*db.Record)
	connections := make([]types.Connection, 0, len(records))
	for _, record := range records {
		conn := types.Connection{Entity: name}
		if v, found := record.Get("relation"); found {
			conn.Relation, _ = v.(string)
		}
		if v, found := record.Get("other_name"); found {
			conn.Other, _ = v.(string)
		}
		if labels := stringList(record, "other_labels"); len(labels) > 0 {
			conn.OtherKind = labels[0]
		}
		if conn.Other == "" {
			continue
		}
		connections = append(connections, conn)
	}
	return connections, nil
}

// EntityInfo returns the stored properties, labels, and degree of the named
// entity, or nil when no such node exists.
func (s *Store) EntityInfo(ctx context.Context, name string) (*types.EntityInfo, error) {
	result, err := s.executeRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (e {name: $name})
			OPTIONAL MATCH (e)-[r]-()
			RETURN e, labels(e) AS labels, count(r) AS degree
			LIMIT 1
		`, map[string]any{"name": name})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, nil
		}
		return records[0], nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query entity %q: %w", name, err)
	}
	if result == nil {
		return nil, nil
	}

	record := result.(*db.Record)
	nodeValue, found := record.Get("e")
	if !found {
		return nil, nil
	}
	node, ok := nodeValue.(dbtype.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected type for entity node: got %T, expected dbtype.Node", nodeValue)
	}

	info := &types.EntityInfo{
		Name:       name,
		Properties: make(map[string]string, len(node.Props)),
	}
	for key, value := range node.Props {
		info.Properties[key] = fmt.Sprint(value)
	}
	if labels := stringList(record, "labels"); len(labels) > 0 {
		info.Kind = labels[0]
	}
	if degreeValue, found := record.Get("degree"); found {
		if degree, ok := degreeValue.(int64); ok {
			info.Degree = int(degree)
		}
	}
	return info, nil
}

// SimilarEntities finds entities sharing the most genres with the named one.
func (s *Store) SimilarEntities(ctx context.Context, name string, limit int) ([]types.Connection, error) {
	if limit <= 0 {
		return nil, types.ErrInvalidLimit
	}

	result, err := s.executeRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (e {name: $name})-[:HAS_GENRE]->(g)<-[:HAS_GENRE]-(other)
			WHERE other.name <> $name
			RETURN other.name AS other_name, labels(other) AS other_labels,
			       count(g) AS shared_genres
			ORDER BY shared_genres DESC, other_name
			LIMIT $limit
		`, map[string]any{
			"name":  name,
			"limit": limit,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query similar entities for %q: %w", name, err)
	}

	records := result.([]*db.Record)
	similar := make([]types.Connection, 0, len(records))
	for _, record := range records {
		conn := types.Connection{Entity: name, Relation: "SHARED_GENRES"}
		if v, found := record.Get("other_name"); found {
			conn.Other, _ = v.(string)
		}
		if labels := stringList(record, "other_labels"); len(labels) > 0 {
			conn.OtherKind = labels[0]
		}
		if v, found := record.Get("shared_genres"); found {
			if count, ok := v.(int64); ok {
				conn.SharedGenres = int(count)
			}
		}
		if conn.Other == "" {
			continue
		}
		similar = append(similar, conn)
	}
	return similar, nil
}

// stringList extracts a []string record field stored as []any.
func stringList(record *db.Record, key string) []string {
	value, found := record.Get(key)
	if !found {
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
