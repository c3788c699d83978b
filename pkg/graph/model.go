// Package graph holds the in-memory typed graph produced by assembly.
//
// Model is a pure data structure: nodes and edges with uniqueness and lookup
// indices, no I/O. It is built once per batch run and treated as immutable
// after export.
package graph

import (
	"fmt"
	"strings"

	"github.com/tunegraph/tunegraph/pkg/types"
)

// Model is an in-memory typed graph with uniqueness indices.
//
// Node identity is the node id (assigned per kind by the assembler); edge
// identity is the unordered endpoint pair plus relation kind, so multiple
// relation kinds may coexist between the same pair but no kind is ever
// duplicated.
type Model struct {
	nodes     map[string]*types.Node
	nodeOrder []string

	edges     map[string]*types.Edge
	edgeOrder []string

	byKind map[types.NodeKind][]string

	// lowercased display name -> id, first writer wins
	nameIndex map[types.NodeKind]map[string]string
}

// NewModel creates an empty graph model.
func NewModel() *Model {
	return &Model{
		nodes:     make(map[string]*types.Node),
		edges:     make(map[string]*types.Edge),
		byKind:    make(map[types.NodeKind][]string),
		nameIndex: make(map[types.NodeKind]map[string]string),
	}
}

// AddNode inserts a node. Inserting a second node with the same id is an
// error; the assembler assigns ids and never reuses them.
func (m *Model) AddNode(n *types.Node) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("invalid node %q: %w", n.ID, err)
	}
	if _, exists := m.nodes[n.ID]; exists {
		return fmt.Errorf("duplicate node id %q", n.ID)
	}
	m.nodes[n.ID] = n
	m.nodeOrder = append(m.nodeOrder, n.ID)
	m.byKind[n.Kind] = append(m.byKind[n.Kind], n.ID)

	idx := m.nameIndex[n.Kind]
	if idx == nil {
		idx = make(map[string]string)
		m.nameIndex[n.Kind] = idx
	}
	key := strings.ToLower(n.DisplayName())
	if _, taken := idx[key]; !taken && key != "" {
		idx[key] = n.ID
	}
	return nil
}

// Node returns the node with the given id.
func (m *Model) Node(id string) (*types.Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given id exists.
func (m *Model) HasNode(id string) bool {
	_, ok := m.nodes[id]
	return ok
}

// NodesOfKind returns the nodes of one kind in insertion order.
func (m *Model) NodesOfKind(kind types.NodeKind) []*types.Node {
	ids := m.byKind[kind]
	nodes := make([]*types.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, m.nodes[id])
	}
	return nodes
}

// FindByName resolves an exact (case-insensitive) display name to a node id
// within one kind.
func (m *Model) FindByName(kind types.NodeKind, name string) (string, bool) {
	idx := m.nameIndex[kind]
	if idx == nil {
		return "", false
	}
	id, ok := idx[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// AddEdge inserts an edge if no edge of the same kind exists between the
// unordered endpoint pair. It reports whether the edge was inserted. Both
// endpoints must already exist: dangling references are the caller's skip
// counters, never phantom nodes.
func (m *Model) AddEdge(e *types.Edge) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}
	if !m.HasNode(e.From) {
		return false, fmt.Errorf("edge %s: unknown node %q", e.Kind, e.From)
	}
	if !m.HasNode(e.To) {
		return false, fmt.Errorf("edge %s: unknown node %q", e.Kind, e.To)
	}
	key := types.PairKey(e.From, e.To, e.Kind)
	if _, exists := m.edges[key]; exists {
		return false, nil
	}
	m.edges[key] = e
	m.edgeOrder = append(m.edgeOrder, key)
	return true, nil
}

// Edge returns the edge of the given kind between the unordered pair. The
// returned pointer is live: the assembler increments collaboration counters
// through it.
func (m *Model) Edge(a, b string, kind types.EdgeKind) (*types.Edge, bool) {
	e, ok := m.edges[types.PairKey(a, b, kind)]
	return e, ok
}

// Edges returns all edges in insertion order.
func (m *Model) Edges() []*types.Edge {
	edges := make([]*types.Edge, 0, len(m.edgeOrder))
	for _, key := range m.edgeOrder {
		edges = append(edges, m.edges[key])
	}
	return edges
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of edges.
func (m *Model) EdgeCount() int { return len(m.edges) }

// ResolvePerformer resolves a free-text name to an Artist or Band node id
// using the shared two-phase policy: exact artist match, then substring
// artist match, then exact band match. Every fuzzy call site (featured
// artists, award attribution) goes through here so behavior never diverges.
func (m *Model) ResolvePerformer(name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}
	if id, ok := m.FindByName(types.ArtistNode, needle); ok {
		return id, true
	}
	for _, id := range m.byKind[types.ArtistNode] {
		if strings.Contains(strings.ToLower(m.nodes[id].Name), needle) {
			return id, true
		}
	}
	if id, ok := m.FindByName(types.BandNode, needle); ok {
		return id, true
	}
	return "", false
}
