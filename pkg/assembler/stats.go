package assembler

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Stats accumulates per-pass skip and failure counters for one batch run.
// Nothing here is fatal; the counters exist so a run summary can say what was
// dropped and why.
type Stats struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`

	Nodes int `json:"nodes"`
	Edges int `json:"edges"`

	ArtistsSkipped       int `json:"artists_skipped"`
	AlbumsBelowThreshold int `json:"albums_below_threshold"`
	DanglingAlbumArtists int `json:"dangling_album_artists"`
	SongsWithoutAlbum    int `json:"songs_without_album"`
	SongsWithoutArtists  int `json:"songs_without_artists"`
	FeaturedUnresolved   int `json:"featured_unresolved"`
	LabelsUnresolved     int `json:"labels_unresolved"`
	GenreLinksSkipped    int `json:"genre_links_skipped"`
	BandsSkipped         int `json:"bands_skipped"`
	MembersUnresolved    int `json:"members_unresolved"`

	NominationsSkipped          int `json:"nominations_skipped"`
	NominationArtistsUnresolved int `json:"nomination_artists_unresolved"`
	NominationAwardsUnresolved  int `json:"nomination_awards_unresolved"`
}

func newStats() *Stats {
	return &Stats{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

func (s *Stats) logSummary(log *slog.Logger) {
	log.Info("graph assembly complete",
		"run_id", s.RunID,
		"nodes", s.Nodes,
		"edges", s.Edges,
		"elapsed", time.Since(s.StartedAt).Round(time.Millisecond))

	if s.AlbumsBelowThreshold > 0 {
		log.Warn("dropped albums below artist threshold", "count", s.AlbumsBelowThreshold)
	}
	if s.SongsWithoutAlbum > 0 {
		log.Warn("skipped songs without materialized album", "count", s.SongsWithoutAlbum)
	}
	if s.FeaturedUnresolved > 0 {
		log.Warn("unresolved featured artist names", "count", s.FeaturedUnresolved)
	}
	if s.NominationArtistsUnresolved > 0 || s.NominationAwardsUnresolved > 0 {
		log.Warn("unresolved award nominations",
			"artists", s.NominationArtistsUnresolved,
			"awards", s.NominationAwardsUnresolved)
	}
}
