package types

import (
	"errors"
	"testing"
)

func TestNodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		node    Node
		wantErr error
	}{
		{
			name: "valid artist",
			node: Node{ID: "artist_0", Kind: ArtistNode, Name: "Taylor Swift"},
		},
		{
			name: "valid album",
			node: Node{ID: "album_0", Kind: AlbumNode, Title: "Red"},
		},
		{
			name:    "empty id",
			node:    Node{Kind: ArtistNode, Name: "Taylor Swift"},
			wantErr: ErrEmptyID,
		},
		{
			name:    "empty kind",
			node:    Node{ID: "artist_0", Name: "Taylor Swift"},
			wantErr: ErrEmptyKind,
		},
		{
			name:    "unknown kind",
			node:    Node{ID: "x_0", Kind: "Playlist", Name: "Mix"},
			wantErr: ErrUnknownKind,
		},
		{
			name:    "artist without name",
			node:    Node{ID: "artist_0", Kind: ArtistNode},
			wantErr: ErrEmptyName,
		},
		{
			name:    "album without title",
			node:    Node{ID: "album_0", Kind: AlbumNode},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "song without title",
			node:    Node{ID: "song_1", Kind: SongNode},
			wantErr: ErrEmptyTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	artist := Node{ID: "artist_0", Kind: ArtistNode, Name: "Ed Sheeran"}
	if got := artist.DisplayName(); got != "Ed Sheeran" {
		t.Errorf("expected artist display name 'Ed Sheeran', got %q", got)
	}

	album := Node{ID: "album_0", Kind: AlbumNode, Title: "Divide"}
	if got := album.DisplayName(); got != "Divide" {
		t.Errorf("expected album display name 'Divide', got %q", got)
	}

	song := Node{ID: "song_1", Kind: SongNode, Title: "Perfect"}
	if got := song.DisplayName(); got != "Perfect" {
		t.Errorf("expected song display name 'Perfect', got %q", got)
	}
}

func TestPairKeyUnordered(t *testing.T) {
	t.Parallel()

	forward := PairKey("artist_0", "artist_1", CollaboratesWith)
	reverse := PairKey("artist_1", "artist_0", CollaboratesWith)
	if forward != reverse {
		t.Errorf("pair key must be direction independent: %q vs %q", forward, reverse)
	}

	other := PairKey("artist_0", "artist_1", PerformsOn)
	if forward == other {
		t.Error("pair key must distinguish edge kinds")
	}
}

func TestEdgeWeight(t *testing.T) {
	t.Parallel()

	collab := Edge{Kind: CollaboratesWith, SharedAlbums: 2, SharedSongs: 3}
	if got := collab.Weight(); got != 5 {
		t.Errorf("expected collaboration weight 5, got %v", got)
	}

	similar := Edge{Kind: SimilarGenre, Similarity: 0.42}
	if got := similar.Weight(); got != 0.42 {
		t.Errorf("expected similarity weight 0.42, got %v", got)
	}

	plain := Edge{Kind: HasGenre}
	if got := plain.Weight(); got != 1 {
		t.Errorf("expected default weight 1, got %v", got)
	}
}

func TestPathRecordTriples(t *testing.T) {
	t.Parallel()

	path := PathRecord{
		NodeNames:     []string{"Taylor Swift", "Red", "Ed Sheeran"},
		RelationTypes: []string{"PERFORMS_ON", "PERFORMS_ON"},
		Length:        2,
	}

	triples := path.Triples()
	if len(triples) != 2 {
		t.Fatalf("expected 2 triples, got %d", len(triples))
	}
	if triples[0].Subject != "Taylor Swift" || triples[0].Object != "Red" {
		t.Errorf("unexpected first triple: %+v", triples[0])
	}
	if triples[1].Subject != "Red" || triples[1].Object != "Ed Sheeran" {
		t.Errorf("unexpected second triple: %+v", triples[1])
	}

	if got := (PathRecord{NodeNames: []string{"solo"}}).Triples(); got != nil {
		t.Errorf("expected nil triples for single node path, got %v", got)
	}
}
