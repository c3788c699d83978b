package types

import "errors"

var (
	ErrSelfEdge      = errors.New("edge endpoints must differ")
	ErrEmptyEndpoint = errors.New("edge endpoints cannot be empty")
)

// EdgeKind represents the type of a relationship.
type EdgeKind string

const (
	// PerformsOn links an Artist or Band to an Album or Song.
	PerformsOn EdgeKind = "PERFORMS_ON"
	// CollaboratesWith links two Artists who share albums or songs.
	CollaboratesWith EdgeKind = "COLLABORATES_WITH"
	// SimilarGenre links two Artists whose genre sets overlap.
	SimilarGenre EdgeKind = "SIMILAR_GENRE"
	// HasGenre links an Artist or Album to a Genre.
	HasGenre EdgeKind = "HAS_GENRE"
	// SignedWith links an Artist to a RecordLabel.
	SignedWith EdgeKind = "SIGNED_WITH"
	// MemberOf links an Artist to a Band.
	MemberOf EdgeKind = "MEMBER_OF"
	// PartOf links a Song to its Album.
	PartOf EdgeKind = "PART_OF"
	// AwardNomination links an Artist or Band to an Award.
	AwardNomination EdgeKind = "AWARD_NOMINATION"
)

// Nomination status values. A nomination observed as won never downgrades.
const (
	StatusWon       = "won"
	StatusNominated = "nominated"
)

// Edge represents a relationship in the knowledge graph. Storage is
// undirected: From/To record the semantic direction for export, but identity
// is the unordered pair plus the kind.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`

	// COLLABORATES_WITH counters, cumulative and never reset.
	SharedAlbums int `json:"shared_albums,omitempty"`
	SharedSongs  int `json:"shared_songs,omitempty"`

	// SIMILAR_GENRE Jaccard similarity in [0,1], fixed at creation.
	Similarity float64 `json:"similarity,omitempty"`

	// PART_OF track number: integer when parseable, raw string otherwise,
	// empty when absent.
	TrackNumber string `json:"track_number,omitempty"`

	// AWARD_NOMINATION fields.
	Status string `json:"status,omitempty"`
	Year   *int   `json:"year,omitempty"`
}

// Validate checks edge endpoints.
func (e *Edge) Validate() error {
	if e.From == "" || e.To == "" {
		return ErrEmptyEndpoint
	}
	if e.From == e.To {
		return ErrSelfEdge
	}
	if e.Kind == "" {
		return ErrEmptyKind
	}
	return nil
}

// Weight returns the export weight for the edge: combined collaboration
// counters for COLLABORATES_WITH, similarity for SIMILAR_GENRE, 1 otherwise.
func (e *Edge) Weight() float64 {
	switch e.Kind {
	case CollaboratesWith:
		return float64(e.SharedAlbums + e.SharedSongs)
	case SimilarGenre:
		return e.Similarity
	default:
		return 1
	}
}

// PairKey returns the identity key of an edge: the unordered endpoint pair
// plus the relation kind. Two edges with equal keys are the same edge.
func PairKey(a, b string, kind EdgeKind) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b + "|" + string(kind)
}
