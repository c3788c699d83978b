package types

// PathRecord is one raw path returned by the graph store: node display names
// interleaved with relation type names, plus the hop count.
type PathRecord struct {
	NodeNames     []string `json:"node_names"`
	RelationTypes []string `json:"rel_types"`
	Length        int      `json:"path_length"`
}

// Triple is a (subject, relation, object) fact extracted from a path.
type Triple struct {
	Subject  string `json:"subject"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
}

// Triples zips consecutive node names with the interleaved relation types.
// A path with n nodes yields n-1 triples.
func (p PathRecord) Triples() []Triple {
	if len(p.NodeNames) < 2 || len(p.RelationTypes) == 0 {
		return nil
	}
	triples := make([]Triple, 0, len(p.RelationTypes))
	for i, rel := range p.RelationTypes {
		if i+1 >= len(p.NodeNames) {
			break
		}
		triples = append(triples, Triple{
			Subject:  p.NodeNames[i],
			Relation: rel,
			Object:   p.NodeNames[i+1],
		})
	}
	return triples
}

// RankedPath pairs a path with its relevance score and extracted triples.
type RankedPath struct {
	Path    PathRecord `json:"path"`
	Score   float64    `json:"score"`
	Triples []Triple   `json:"triples"`
}

// Retrieval outcome tags. These are results, not errors: downstream
// generation always receives a well-formed payload.
const (
	RetrievalNoEntities = "no_entities"
	RetrievalNoPaths    = "no_paths"
)

// RetrievalResult is the payload handed to the answer generator.
type RetrievalResult struct {
	ContextText string       `json:"context_text"`
	Paths       []RankedPath `json:"paths"`
	Entities    []string     `json:"entities"`
	Error       string       `json:"error,omitempty"`

	AllPathsCount    int `json:"all_paths_count,omitempty"`
	RankedPathsCount int `json:"ranked_paths_count,omitempty"`
}

// Connection is one neighbor of an entity, as answered by the graph store.
type Connection struct {
	Entity       string `json:"entity"`
	Relation     string `json:"relation"`
	Other        string `json:"other"`
	OtherKind    string `json:"other_kind,omitempty"`
	SharedGenres int    `json:"shared_genres,omitempty"`
}

// EntityInfo is the detailed record for a single named node as stored,
// with its properties flattened to strings for transport.
type EntityInfo struct {
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	Degree     int               `json:"degree"`
	Properties map[string]string `json:"properties"`
}
