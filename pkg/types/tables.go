package types

// ArtistRow is one row of the artist input table produced by the upstream
// parsing/cleaning stage. Genres and labels arrive as semicolon-delimited
// strings exactly as scraped.
type ArtistRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Genres      string `json:"genres"`
	Instruments string `json:"instruments"`
	ActiveYears string `json:"active_years"`
	URL         string `json:"url"`
	Labels      string `json:"labels"`
}

// SongRow is one row of the optional song input table. AlbumID references a
// key of the album map, not a graph node id.
type SongRow struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Duration        string `json:"duration"`
	TrackNumber     string `json:"track_number"`
	AlbumID         string `json:"album_id"`
	FeaturedArtists string `json:"featured_artists"`
}

// GenreRow is one row of the optional genre input table.
type GenreRow struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
	Count          int    `json:"count"`
}

// GenreLink attributes a genre to an artist or album by node id.
type GenreLink struct {
	From     string `json:"from"`
	To       string `json:"to"`
	FromKind string `json:"from_type"`
}

// BandClassification is one row of the optional band classification feed.
type BandClassification struct {
	Name           string  `json:"name"`
	Classification string  `json:"classification"`
	Confidence     float64 `json:"confidence"`
}

// AwardRow is one row of the optional award input table.
type AwardRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Ceremony string `json:"ceremony"`
	Category string `json:"category"`
	Year     string `json:"year"`
}

// NominationRecord is one free-text award entry attributed to an artist.
type NominationRecord struct {
	Ceremony string `json:"ceremony"`
	Category string `json:"category"`
	Year     string `json:"year"`
	Status   string `json:"status"`
}

// InputTables is the fixed snapshot of flat tables consumed by a batch run.
// Artists and Albums are required; everything else is optional and skipped
// when absent.
type InputTables struct {
	Artists []ArtistRow

	// Albums maps album title to the artist ids credited on it.
	Albums map[string][]string

	Songs           []SongRow
	Genres          []GenreRow
	GenreLinks      []GenreLink
	Classifications []BandClassification

	// BandMembers maps band name to member artist names. When present it is
	// the authoritative MEMBER_OF source.
	BandMembers map[string][]string

	Awards []AwardRow

	// Nominations maps artist name to that artist's award entries.
	Nominations map[string][]NominationRecord
}
