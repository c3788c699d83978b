// Package loader reads the upstream parser's output files into input tables:
// CSV for the row-shaped feeds (artists, songs, genres, awards) and JSON for
// the map-shaped ones (albums, band members, nominations).
package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tunegraph/tunegraph/pkg/types"
)

// Well-known file names inside an input directory.
const (
	ArtistsFile         = "artists.csv"
	AlbumsFile          = "albums.json"
	SongsFile           = "songs.csv"
	GenresFile          = "genres.csv"
	GenreLinksFile      = "genre_links.csv"
	ClassificationsFile = "band_classifications.json"
	BandMembersFile     = "band_members.json"
	AwardsFile          = "awards.csv"
	NominationsFile     = "nominations.json"
)

// LoadDir reads every input table found in dir. Artists and albums are
// required; the rest default to empty when the file is absent.
func LoadDir(dir string) (*types.InputTables, error) {
	tables := &types.InputTables{}

	artists, err := LoadArtists(filepath.Join(dir, ArtistsFile))
	if err != nil {
		return nil, err
	}
	tables.Artists = artists

	if err := readJSON(filepath.Join(dir, AlbumsFile), &tables.Albums, true); err != nil {
		return nil, err
	}

	songs, err := loadOptionalCSV(filepath.Join(dir, SongsFile), songFromRecord)
	if err != nil {
		return nil, err
	}
	tables.Songs = songs

	genres, err := loadOptionalCSV(filepath.Join(dir, GenresFile), genreFromRecord)
	if err != nil {
		return nil, err
	}
	tables.Genres = genres

	links, err := loadOptionalCSV(filepath.Join(dir, GenreLinksFile), genreLinkFromRecord)
	if err != nil {
		return nil, err
	}
	tables.GenreLinks = links

	if err := readJSON(filepath.Join(dir, ClassificationsFile), &tables.Classifications, false); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, BandMembersFile), &tables.BandMembers, false); err != nil {
		return nil, err
	}

	awards, err := loadOptionalCSV(filepath.Join(dir, AwardsFile), awardFromRecord)
	if err != nil {
		return nil, err
	}
	tables.Awards = awards

	if err := readJSON(filepath.Join(dir, NominationsFile), &tables.Nominations, false); err != nil {
		return nil, err
	}

	return tables, nil
}

// LoadArtists reads the required artist table.
func LoadArtists(path string) ([]types.ArtistRow, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	rows := make([]types.ArtistRow, 0, len(records))
	for _, record := range records {
		get := fieldGetter(header, record)
		rows = append(rows, types.ArtistRow{
			ID:          get("id"),
			Name:        get("name"),
			Genres:      get("genres"),
			Instruments: get("instruments"),
			ActiveYears: get("active_years"),
			URL:         get("url"),
			Labels:      get("labels"),
		})
	}
	return rows, nil
}

func songFromRecord(header map[string]int, record []string) types.SongRow {
	get := fieldGetter(header, record)
	return types.SongRow{
		ID:              get("id"),
		Title:           get("title"),
		Duration:        get("duration"),
		TrackNumber:     get("track_number"),
		AlbumID:         get("album_id"),
		FeaturedArtists: get("featured_artists"),
	}
}

func genreFromRecord(header map[string]int, record []string) types.GenreRow {
	get := fieldGetter(header, record)
	count, _ := strconv.Atoi(get("count"))
	return types.GenreRow{
		ID:             get("id"),
		Name:           get("name"),
		NormalizedName: get("normalized_name"),
		Count:          count,
	}
}

func genreLinkFromRecord(header map[string]int, record []string) types.GenreLink {
	get := fieldGetter(header, record)
	return types.GenreLink{
		From:     get("from"),
		To:       get("to"),
		FromKind: get("from_type"),
	}
}

func awardFromRecord(header map[string]int, record []string) types.AwardRow {
	get := fieldGetter(header, record)
	return types.AwardRow{
		ID:       get("id"),
		Name:     get("name"),
		Ceremony: get("ceremony"),
		Category: get("category"),
		Year:     get("year"),
	}
}

// readCSV reads a whole CSV file and returns its data records plus a header
// index. Records may have ragged lengths; missing trailing fields read as "".
func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s has no header row", path)
	}

	header := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		header[name] = i
	}
	return all[1:], header, nil
}

func loadOptionalCSV[T any](path string, fromRecord func(map[string]int, []string) T) ([]T, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	rows := make([]T, 0, len(records))
	for _, record := range records {
		rows = append(rows, fromRecord(header, record))
	}
	return rows, nil
}

// readJSON decodes path into out. A missing file is an error only when the
// table is required.
func readJSON(path string, out any, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func fieldGetter(header map[string]int, record []string) func(string) string {
	return func(name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}
}
