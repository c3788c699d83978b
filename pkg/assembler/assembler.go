// Package assembler converts flat entity and relation tables into the
// in-memory knowledge graph, enforcing the dedup and aggregation rules each
// relation type requires.
//
// Assembly is a fixed sequence of single-threaded passes over an immutable
// snapshot of the input tables. Record-level failures increment counters and
// never abort the batch; only a missing primary table is fatal.
package assembler

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tunegraph/tunegraph/pkg/graph"
	"github.com/tunegraph/tunegraph/pkg/types"
)

const (
	// DefaultMinAlbumArtists is the attribution count below which an album is
	// not materialized. Solo albums carry no collaboration signal.
	DefaultMinAlbumArtists = 2

	// DefaultSimilarityThreshold is the Jaccard cutoff for SIMILAR_GENRE.
	DefaultSimilarityThreshold = 0.3
)

// Options tunes assembly behavior.
type Options struct {
	// MinAlbumArtists is the minimum number of distinct attributed artists an
	// album needs to become a node.
	MinAlbumArtists int

	// SimilarityThreshold is the minimum Jaccard genre similarity for a
	// SIMILAR_GENRE edge.
	SimilarityThreshold float64

	// AllowSelfMemberFallback enables the degraded MEMBER_OF mode that treats
	// an artist named identically to a classified band as its sole member.
	// The explicit members map is always preferred; leave this off unless the
	// feed has no membership data at all.
	AllowSelfMemberFallback bool

	Logger *slog.Logger
}

func (o *Options) withDefaults() Options {
	out := Options{MinAlbumArtists: DefaultMinAlbumArtists, SimilarityThreshold: DefaultSimilarityThreshold}
	if o != nil {
		out.AllowSelfMemberFallback = o.AllowSelfMemberFallback
		out.Logger = o.Logger
		if o.MinAlbumArtists > 0 {
			out.MinAlbumArtists = o.MinAlbumArtists
		}
		if o.SimilarityThreshold > 0 {
			out.SimilarityThreshold = o.SimilarityThreshold
		}
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return out
}

// Assembler builds a graph.Model from input tables.
type Assembler struct {
	opts  Options
	log   *slog.Logger
	stats *Stats

	model *graph.Model

	// Owned lookup indices built during assembly and shared by the dependent
	// passes. Never global, never rebuilt ad hoc.
	artistNodeByRowID map[string]string
	albumIDByTitle    map[string]string
	albumArtists      map[string][]string
	labelNodeByName   map[string]string
	bandNodeByName    map[string]string
	awardByKey        map[string]string
}

// New creates an assembler with the given options.
func New(opts *Options) *Assembler {
	o := opts.withDefaults()
	return &Assembler{
		opts:              o,
		log:               o.Logger,
		stats:             newStats(),
		model:             graph.NewModel(),
		artistNodeByRowID: make(map[string]string),
		albumIDByTitle:    make(map[string]string),
		albumArtists:      make(map[string][]string),
		labelNodeByName:   make(map[string]string),
		bandNodeByName:    make(map[string]string),
		awardByKey:        make(map[string]string),
	}
}

// Stats returns the counters accumulated by the last Assemble call.
func (a *Assembler) Stats() *Stats { return a.stats }

// Assemble runs every pass in dependency order and returns the populated
// model. The artist table and album map are required; all other tables are
// optional and skipped when empty.
func (a *Assembler) Assemble(tables *types.InputTables) (*graph.Model, error) {
	if tables == nil || len(tables.Artists) == 0 {
		return nil, fmt.Errorf("assemble: artist table is required")
	}
	if tables.Albums == nil {
		return nil, fmt.Errorf("assemble: album map is required")
	}

	a.log.Info("building graph", "run_id", a.stats.RunID, "artists", len(tables.Artists), "albums", len(tables.Albums))

	a.addArtistNodes(tables.Artists)
	a.addAlbumNodesAndEdges(tables.Albums)
	a.addRecordLabelNodes(tables.Artists)
	a.addSignedWithEdges(tables.Artists)
	a.addSimilarGenreEdges()

	if len(tables.Genres) > 0 {
		a.addGenreNodes(tables.Genres)
	}
	if len(tables.GenreLinks) > 0 {
		a.addHasGenreEdges(tables.GenreLinks)
	}
	if len(tables.Classifications) > 0 {
		a.addBandNodes(tables.Classifications)
		a.addMemberOfEdges(tables.Classifications, tables.BandMembers)
	}
	if len(tables.Songs) > 0 {
		a.addSongNodes(tables.Songs)
		a.addPartOfEdges(tables.Songs)
		a.addPerformsOnSongEdges()
	}
	if len(tables.Awards) > 0 {
		a.addAwardNodes(tables.Awards)
	}
	if len(tables.Nominations) > 0 {
		a.addAwardNominationEdges(tables.Nominations)
	}

	a.stats.Nodes = a.model.NodeCount()
	a.stats.Edges = a.model.EdgeCount()
	a.stats.logSummary(a.log)
	return a.model, nil
}

// addArtistNodes inserts one Artist node per input row. Node ids follow the
// row's position in the source table, so callers must keep input ordering
// stable across runs for id stability.
func (a *Assembler) addArtistNodes(rows []types.ArtistRow) {
	for i, row := range rows {
		nodeID := fmt.Sprintf("artist_%d", i)
		node := &types.Node{
			ID:          nodeID,
			Kind:        types.ArtistNode,
			Name:        row.Name,
			Genres:      splitSemicolon(row.Genres),
			Instruments: row.Instruments,
			ActiveYears: row.ActiveYears,
			URL:         row.URL,
		}
		if err := a.model.AddNode(node); err != nil {
			a.stats.ArtistsSkipped++
			a.log.Debug("skipping artist row", "row", row.ID, "error", err)
			continue
		}
		a.artistNodeByRowID[row.ID] = nodeID
	}
	a.log.Info("added artist nodes", "count", len(a.artistNodeByRowID), "skipped", a.stats.ArtistsSkipped)
}

// addAlbumNodesAndEdges materializes albums with enough distinct attributed
// artists, wiring PERFORMS_ON and seeding COLLABORATES_WITH shared_albums.
// Album ids follow an independent sequence over sorted qualifying titles.
func (a *Assembler) addAlbumNodesAndEdges(albums map[string][]string) {
	titles := make([]string, 0, len(albums))
	for title := range albums {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	performEdges := 0
	collabEdges := 0
	albumIdx := 0
	for _, title := range titles {
		artistRowIDs := distinct(albums[title])
		if len(artistRowIDs) < a.opts.MinAlbumArtists {
			a.stats.AlbumsBelowThreshold++
			continue
		}

		albumID := fmt.Sprintf("album_%d", albumIdx)
		albumIdx++
		if err := a.model.AddNode(&types.Node{ID: albumID, Kind: types.AlbumNode, Title: title}); err != nil {
			a.log.Debug("skipping album", "title", title, "error", err)
			continue
		}
		a.albumIDByTitle[title] = albumID

		var performers []string
		for _, rowID := range artistRowIDs {
			artistID, ok := a.artistNodeByRowID[rowID]
			if !ok {
				a.stats.DanglingAlbumArtists++
				continue
			}
			added, err := a.model.AddEdge(&types.Edge{From: artistID, To: albumID, Kind: types.PerformsOn})
			if err != nil {
				a.log.Debug("performs_on rejected", "artist", artistID, "album", albumID, "error", err)
				continue
			}
			if added {
				performEdges++
			}
			performers = append(performers, artistID)
		}
		a.albumArtists[albumID] = performers

		for i, first := range performers {
			for _, second := range performers[i+1:] {
				if a.bumpCollaboration(first, second, 1, 0) {
					collabEdges++
				}
			}
		}
	}

	a.log.Info("added album nodes and edges",
		"albums", len(a.albumIDByTitle),
		"below_threshold", a.stats.AlbumsBelowThreshold,
		"performs_on", performEdges,
		"collaborations", collabEdges)
}

// bumpCollaboration creates or increments the COLLABORATES_WITH edge between
// two artists. Both counter components accumulate independently; nothing is
// ever overwritten or reset. Reports whether a new edge was created.
func (a *Assembler) bumpCollaboration(first, second string, albums, songs int) bool {
	if edge, ok := a.model.Edge(first, second, types.CollaboratesWith); ok {
		edge.SharedAlbums += albums
		edge.SharedSongs += songs
		return false
	}
	added, err := a.model.AddEdge(&types.Edge{
		From:         first,
		To:           second,
		Kind:         types.CollaboratesWith,
		SharedAlbums: albums,
		SharedSongs:  songs,
	})
	if err != nil {
		a.log.Debug("collaborates_with rejected", "from", first, "to", second, "error", err)
		return false
	}
	return added
}

var labelSuffixPattern = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// normalizeLabel trims a raw label string and strips free-form parenthetical
// suffixes such as "(label)" or "(record company)".
func normalizeLabel(raw string) string {
	return strings.TrimSpace(labelSuffixPattern.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// addRecordLabelNodes creates one RecordLabel node per unique normalized
// label across all artist rows.
func (a *Assembler) addRecordLabelNodes(rows []types.ArtistRow) {
	unique := make(map[string]struct{})
	for _, row := range rows {
		for _, label := range splitSemicolon(row.Labels) {
			if normalized := normalizeLabel(label); normalized != "" {
				unique[normalized] = struct{}{}
			}
		}
	}
	if len(unique) == 0 {
		a.log.Info("no record labels found in artist table")
		return
	}

	names := make([]string, 0, len(unique))
	for name := range unique {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		nodeID := fmt.Sprintf("label_%d", i)
		if err := a.model.AddNode(&types.Node{ID: nodeID, Kind: types.RecordLabelNode, Name: name}); err != nil {
			a.log.Debug("skipping record label", "name", name, "error", err)
			continue
		}
		a.labelNodeByName[name] = nodeID
	}
	a.log.Info("added record label nodes", "count", len(a.labelNodeByName))
}

// addSignedWithEdges links artists to the labels parsed from their rows.
func (a *Assembler) addSignedWithEdges(rows []types.ArtistRow) {
	if len(a.labelNodeByName) == 0 {
		return
	}
	added := 0
	for _, row := range rows {
		artistID, ok := a.artistNodeByRowID[row.ID]
		if !ok {
			continue
		}
		for _, label := range splitSemicolon(row.Labels) {
			normalized := normalizeLabel(label)
			labelID, ok := a.labelNodeByName[normalized]
			if !ok {
				a.stats.LabelsUnresolved++
				continue
			}
			inserted, err := a.model.AddEdge(&types.Edge{From: artistID, To: labelID, Kind: types.SignedWith})
			if err != nil {
				a.stats.LabelsUnresolved++
				continue
			}
			if inserted {
				added++
			}
		}
	}
	a.log.Info("added signed_with edges", "count", added, "unresolved", a.stats.LabelsUnresolved)
}

// addSimilarGenreEdges compares every artist pair by Jaccard similarity of
// their genre sets. An edge is created once when similarity meets the
// threshold and never updated afterwards.
func (a *Assembler) addSimilarGenreEdges() {
	artists := a.model.NodesOfKind(types.ArtistNode)
	sets := make([]map[string]struct{}, len(artists))
	for i, artist := range artists {
		sets[i] = genreSet(artist.Genres)
	}

	added := 0
	for i := range artists {
		if len(sets[i]) == 0 {
			continue
		}
		for j := i + 1; j < len(artists); j++ {
			if len(sets[j]) == 0 {
				continue
			}
			similarity := jaccard(sets[i], sets[j])
			if similarity < a.opts.SimilarityThreshold {
				continue
			}
			inserted, err := a.model.AddEdge(&types.Edge{
				From:       artists[i].ID,
				To:         artists[j].ID,
				Kind:       types.SimilarGenre,
				Similarity: math.Round(similarity*1000) / 1000,
			})
			if err == nil && inserted {
				added++
			}
		}
	}
	a.log.Info("added similar_genre edges", "count", added, "threshold", a.opts.SimilarityThreshold)
}

func genreSet(genres []string) map[string]struct{} {
	set := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" {
			set[g] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	common := 0
	for g := range a {
		if _, ok := b[g]; ok {
			common++
		}
	}
	union := len(a) + len(b) - common
	if union == 0 || common == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

// addGenreNodes inserts Genre nodes, keeping the parser-assigned row ids so
// genre links can reference them directly.
func (a *Assembler) addGenreNodes(rows []types.GenreRow) {
	added := 0
	for _, row := range rows {
		node := &types.Node{
			ID:             row.ID,
			Kind:           types.GenreNode,
			Name:           row.Name,
			NormalizedName: row.NormalizedName,
			Count:          row.Count,
		}
		if node.NormalizedName == "" {
			node.NormalizedName = row.Name
		}
		if err := a.model.AddNode(node); err != nil {
			a.log.Debug("skipping genre row", "id", row.ID, "error", err)
			continue
		}
		added++
	}
	a.log.Info("added genre nodes", "count", added)
}

// addHasGenreEdges wires the precomputed artist/album to genre attributions.
func (a *Assembler) addHasGenreEdges(links []types.GenreLink) {
	added := 0
	for _, link := range links {
		if !a.model.HasNode(link.From) || !a.model.HasNode(link.To) {
			a.stats.GenreLinksSkipped++
			continue
		}
		inserted, err := a.model.AddEdge(&types.Edge{From: link.From, To: link.To, Kind: types.HasGenre})
		if err != nil {
			a.stats.GenreLinksSkipped++
			continue
		}
		if inserted {
			added++
		}
	}
	a.log.Info("added has_genre edges", "count", added, "skipped", a.stats.GenreLinksSkipped)
}

// addBandNodes creates Band nodes from the classification feed, carrying the
// classifier confidence and the URL of the same-named artist when one exists.
func (a *Assembler) addBandNodes(classifications []types.BandClassification) {
	added := 0
	idx := 0
	for _, c := range classifications {
		if c.Classification != "band" {
			continue
		}
		nodeID := fmt.Sprintf("band_%d", idx)
		idx++
		if c.Name == "" {
			a.stats.BandsSkipped++
			continue
		}
		node := &types.Node{
			ID:                       nodeID,
			Kind:                     types.BandNode,
			Name:                     c.Name,
			ClassificationConfidence: c.Confidence,
		}
		if artistID, ok := a.model.FindByName(types.ArtistNode, c.Name); ok {
			if artist, found := a.model.Node(artistID); found {
				node.URL = artist.URL
			}
		}
		if err := a.model.AddNode(node); err != nil {
			a.stats.BandsSkipped++
			continue
		}
		a.bandNodeByName[c.Name] = nodeID
		added++
	}
	a.log.Info("added band nodes", "count", added, "skipped", a.stats.BandsSkipped)
}

// addMemberOfEdges links artists to bands. The explicit members map is the
// authoritative source; the same-name fallback only runs when enabled and no
// map is available, and is known to produce wrong membership for real
// multi-member bands.
func (a *Assembler) addMemberOfEdges(classifications []types.BandClassification, members map[string][]string) {
	if len(a.bandNodeByName) == 0 {
		return
	}
	added := 0

	switch {
	case len(members) > 0:
		bandNames := make([]string, 0, len(members))
		for name := range members {
			bandNames = append(bandNames, name)
		}
		sort.Strings(bandNames)

		for _, bandName := range bandNames {
			bandID, ok := a.bandNodeByName[bandName]
			if !ok {
				a.log.Debug("band node not found for members entry", "band", bandName)
				continue
			}
			for _, member := range members[bandName] {
				artistID, ok := a.model.FindByName(types.ArtistNode, member)
				if !ok {
					a.stats.MembersUnresolved++
					continue
				}
				inserted, err := a.model.AddEdge(&types.Edge{From: artistID, To: bandID, Kind: types.MemberOf})
				if err == nil && inserted {
					added++
				}
			}
		}

	case a.opts.AllowSelfMemberFallback:
		a.log.Warn("no band members map provided, falling back to same-name membership")
		for _, c := range classifications {
			if c.Classification != "band" {
				continue
			}
			bandID, ok := a.bandNodeByName[c.Name]
			if !ok {
				continue
			}
			artistID, ok := a.model.FindByName(types.ArtistNode, c.Name)
			if !ok {
				a.stats.MembersUnresolved++
				continue
			}
			inserted, err := a.model.AddEdge(&types.Edge{From: artistID, To: bandID, Kind: types.MemberOf})
			if err == nil && inserted {
				added++
			}
		}

	default:
		a.log.Info("no band members map provided, skipping member_of edges")
		return
	}

	a.log.Info("added member_of edges", "count", added, "unresolved", a.stats.MembersUnresolved)
}

// addSongNodes inserts Song nodes whose album reference resolves to a
// materialized Album. Everything else is counted and dropped; phantom albums
// are never created.
func (a *Assembler) addSongNodes(rows []types.SongRow) {
	added := 0
	for _, row := range rows {
		albumID, ok := a.resolveAlbumRef(row.AlbumID)
		if !ok {
			a.stats.SongsWithoutAlbum++
			a.log.Debug("song has no materialized album", "title", row.Title, "album_ref", row.AlbumID)
			continue
		}
		node := &types.Node{
			ID:              fmt.Sprintf("song_%s", row.ID),
			Kind:            types.SongNode,
			Title:           row.Title,
			Duration:        row.Duration,
			TrackNumber:     row.TrackNumber,
			AlbumID:         albumID,
			FeaturedArtists: splitSemicolon(row.FeaturedArtists),
		}
		if err := a.model.AddNode(node); err != nil {
			a.stats.SongsWithoutAlbum++
			continue
		}
		added++
	}
	a.log.Info("added song nodes", "count", added, "skipped", a.stats.SongsWithoutAlbum)
}

// resolveAlbumRef maps a song's album reference to a materialized album node
// id. References may be the node id itself or the album title.
func (a *Assembler) resolveAlbumRef(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if node, ok := a.model.Node(ref); ok && node.Kind == types.AlbumNode {
		return ref, true
	}
	id, ok := a.albumIDByTitle[ref]
	return id, ok
}

// addPartOfEdges links songs to their albums, carrying the track number as an
// integer when it parses, the raw string when it does not, and nothing when
// absent.
func (a *Assembler) addPartOfEdges(rows []types.SongRow) {
	added := 0
	withTrack := 0
	for _, row := range rows {
		songID := fmt.Sprintf("song_%s", row.ID)
		song, ok := a.model.Node(songID)
		if !ok {
			continue
		}
		edge := &types.Edge{From: songID, To: song.AlbumID, Kind: types.PartOf}
		if track := normalizeTrackNumber(row.TrackNumber); track != "" {
			edge.TrackNumber = track
			withTrack++
		}
		inserted, err := a.model.AddEdge(edge)
		if err != nil {
			continue
		}
		if inserted {
			added++
		}
	}
	a.log.Info("added part_of edges", "count", added, "with_track_number", withTrack)
}

func normalizeTrackNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return strconv.Itoa(int(f))
	}
	return raw
}

// addPerformsOnSongEdges derives Artist/Band → Song edges from the song's
// parent album attribution plus its featured-artist names, then increments
// COLLABORATES_WITH shared_songs for every pair of the combined set.
func (a *Assembler) addPerformsOnSongEdges() {
	songs := a.model.NodesOfKind(types.SongNode)
	if len(songs) == 0 {
		return
	}

	added := 0
	songsWithFeatured := 0
	collabTouched := 0
	for _, song := range songs {
		performers := append([]string(nil), a.albumArtists[song.AlbumID]...)

		if len(song.FeaturedArtists) > 0 {
			songsWithFeatured++
			for _, name := range song.FeaturedArtists {
				if id, ok := a.model.ResolvePerformer(name); ok {
					performers = append(performers, id)
				} else {
					a.stats.FeaturedUnresolved++
				}
			}
		}

		performers = distinct(performers)
		if len(performers) == 0 {
			a.stats.SongsWithoutArtists++
			continue
		}

		for _, performerID := range performers {
			inserted, err := a.model.AddEdge(&types.Edge{From: performerID, To: song.ID, Kind: types.PerformsOn})
			if err == nil && inserted {
				added++
			}
		}
		for i, first := range performers {
			for _, second := range performers[i+1:] {
				a.bumpCollaboration(first, second, 0, 1)
				collabTouched++
			}
		}
	}

	a.log.Info("added performs_on song edges",
		"count", added,
		"songs_with_featured", songsWithFeatured,
		"collaboration_updates", collabTouched,
		"featured_unresolved", a.stats.FeaturedUnresolved)
}

// splitSemicolon splits a semicolon-delimited field into trimmed non-empty
// parts.
func splitSemicolon(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// distinct removes duplicates preserving first-seen order.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
