package types

import "errors"

// Validation errors
var (
	ErrEmptyID      = errors.New("id cannot be empty")
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrEmptyKind    = errors.New("kind cannot be empty")
	ErrUnknownKind  = errors.New("unknown node kind")
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrInvalidLimit = errors.New("limit must be positive")
)

// NodeKind represents the type of a node.
type NodeKind string

const (
	// ArtistNode represents an individual musician.
	ArtistNode NodeKind = "Artist"
	// BandNode represents a group classified as a band.
	BandNode NodeKind = "Band"
	// AlbumNode represents an album credited to at least two artists.
	AlbumNode NodeKind = "Album"
	// SongNode represents a track belonging to a materialized album.
	SongNode NodeKind = "Song"
	// GenreNode represents a musical genre.
	GenreNode NodeKind = "Genre"
	// RecordLabelNode represents a record label.
	RecordLabelNode NodeKind = "RecordLabel"
	// AwardNode represents a (ceremony, category, year) award slot.
	AwardNode NodeKind = "Award"
)

// NodeKinds lists every known node kind in export order.
var NodeKinds = []NodeKind{
	ArtistNode, BandNode, AlbumNode, SongNode, GenreNode, RecordLabelNode, AwardNode,
}

// Node represents a node in the knowledge graph. Kind selects which field
// group is meaningful; the rest stay at their zero value.
type Node struct {
	ID   string   `json:"id" mapstructure:"id"`
	Kind NodeKind `json:"kind" mapstructure:"kind"`

	// Artist / Band / Genre / RecordLabel fields
	Name string `json:"name,omitempty" mapstructure:"name"`

	// Artist-specific fields
	Genres      []string `json:"genres,omitempty" mapstructure:"genres"`
	Instruments string   `json:"instruments,omitempty" mapstructure:"instruments"`
	ActiveYears string   `json:"active_years,omitempty" mapstructure:"active_years"`
	URL         string   `json:"url,omitempty" mapstructure:"url"`

	// Band-specific fields
	ClassificationConfidence float64 `json:"classification_confidence,omitempty" mapstructure:"classification_confidence"`

	// Album / Song fields
	Title string `json:"title,omitempty" mapstructure:"title"`

	// Song-specific fields
	Duration        string   `json:"duration,omitempty" mapstructure:"duration"`
	TrackNumber     string   `json:"track_number,omitempty" mapstructure:"track_number"`
	AlbumID         string   `json:"album_id,omitempty" mapstructure:"album_id"`
	FeaturedArtists []string `json:"featured_artists,omitempty" mapstructure:"featured_artists"`

	// Genre-specific fields
	NormalizedName string `json:"normalized_name,omitempty" mapstructure:"normalized_name"`
	Count          int    `json:"count,omitempty" mapstructure:"count"`

	// Award-specific fields
	Ceremony string `json:"ceremony,omitempty" mapstructure:"ceremony"`
	Category string `json:"category,omitempty" mapstructure:"category"`
	Year     *int   `json:"year,omitempty" mapstructure:"year"`
}

// DisplayName returns the human-readable name of the node regardless of kind.
// Albums and songs are titled, everything else is named.
func (n *Node) DisplayName() string {
	switch n.Kind {
	case AlbumNode, SongNode:
		return n.Title
	default:
		return n.Name
	}
}

// Validate checks if the Node has all required fields for its kind.
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrEmptyID
	}
	switch n.Kind {
	case ArtistNode, BandNode, GenreNode, RecordLabelNode, AwardNode:
		if n.Name == "" {
			return ErrEmptyName
		}
	case AlbumNode, SongNode:
		if n.Title == "" {
			return ErrEmptyTitle
		}
	case "":
		return ErrEmptyKind
	default:
		return ErrUnknownKind
	}
	return nil
}
