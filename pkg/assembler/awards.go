package assembler

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tunegraph/tunegraph/pkg/types"
)

// ceremonyAliases shortens well-known ceremony names so free-text nomination
// records and the award table agree on a key.
var ceremonyAliases = map[string]string{
	"grammy awards":          "Grammy",
	"billboard music awards": "Billboard",
	"mtv video music awards": "MTV",
	"brit awards":            "Brit",
	"american music awards":  "AMA",
}

// categoryTranslations maps scraped Vietnamese category phrases to their
// English award names. Matching is substring on the lowercased input.
var categoryTranslations = []struct{ vi, en string }{
	{"album của năm", "Album of the Year"},
	{"bài hát của năm", "Song of the Year"},
	{"nghệ sĩ của năm", "Artist of the Year"},
	{"thu âm của năm", "Record of the Year"},
	{"video của năm", "Video of the Year"},
	{"album giọng pop xuất sắc nhất", "Best Pop Vocal Album"},
	{"trình diễn solo giọng pop xuất sắc nhất", "Best Pop Solo Performance"},
	{"nghệ sĩ mới xuất sắc nhất", "Best New Artist"},
	{"best pop video", "Best Pop Video"},
	{"best pop", "Best Pop"},
}

// categoryPatterns collapses common category phrasings onto canonical names.
// Order matters: more specific patterns come first.
var categoryPatterns = []struct {
	pattern    *regexp.Regexp
	normalized string
}{
	{regexp.MustCompile(`best\s+new\s+artist`), "Best New Artist"},
	{regexp.MustCompile(`best\s+pop\s+video`), "Best Pop Video"},
	{regexp.MustCompile(`best\s+pop\s+vocal\s+album`), "Best Pop Vocal Album"},
	{regexp.MustCompile(`best\s+pop\s+solo\s+performance`), "Best Pop Solo Performance"},
	{regexp.MustCompile(`best\s+album`), "Best Album"},
	{regexp.MustCompile(`best\s+song`), "Best Song"},
	{regexp.MustCompile(`best\s+artist`), "Best Artist"},
	{regexp.MustCompile(`best\s+record`), "Best Record"},
	{regexp.MustCompile(`best\s+video`), "Best Video"},
	{regexp.MustCompile(`best\s+performance`), "Best Performance"},
	{regexp.MustCompile(`album\s+of\s+the\s+year`), "Album of the Year"},
	{regexp.MustCompile(`song\s+of\s+the\s+year`), "Song of the Year"},
	{regexp.MustCompile(`artist\s+of\s+the\s+year`), "Artist of the Year"},
	{regexp.MustCompile(`record\s+of\s+the\s+year`), "Record of the Year"},
	{regexp.MustCompile(`video\s+of\s+the\s+year`), "Video of the Year"},
}

var (
	wikiLinkPattern     = regexp.MustCompile(`\[\[(?:[^\]|]+\|)?([^\]]+)\]\]`)
	wikiTrailingPattern = regexp.MustCompile(`\|.*$`)
	wikiBracketPattern  = regexp.MustCompile(`\[\[|\]\]`)
	wikiBoldPattern     = regexp.MustCompile(`'''?`)
	tableMarkupPattern  = regexp.MustCompile(`(?i)(rowspan|colspan)\s*=\s*["']?\d+["']?|(style|class)\s*=\s*["'][^"']*["']`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// normalizeCeremony maps a ceremony name onto its short alias, falling back
// to the input unchanged.
func normalizeCeremony(ceremony string) string {
	ceremony = strings.TrimSpace(ceremony)
	if ceremony == "" {
		return ""
	}
	if alias, ok := ceremonyAliases[strings.ToLower(ceremony)]; ok {
		return alias
	}
	return ceremony
}

// normalizeCategory cleans wiki/table markup from a free-text category and
// collapses it onto a canonical category name. Unrecognizable input becomes
// "General".
func normalizeCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return "General"
	}

	category = wikiLinkPattern.ReplaceAllString(category, "$1")
	category = wikiTrailingPattern.ReplaceAllString(category, "")
	category = wikiBracketPattern.ReplaceAllString(category, "")
	category = wikiBoldPattern.ReplaceAllString(category, "")
	category = tableMarkupPattern.ReplaceAllString(category, "")
	category = strings.TrimSpace(whitespacePattern.ReplaceAllString(category, " "))

	lower := strings.ToLower(category)
	if len(category) < 3 || lower == "rowspan" || lower == "colspan" {
		return "General"
	}

	for _, t := range categoryTranslations {
		if strings.Contains(lower, t.vi) {
			return t.en
		}
	}
	for _, p := range categoryPatterns {
		if p.pattern.MatchString(lower) {
			return p.normalized
		}
	}

	// Mixed-language text sometimes embeds the English award name mid-phrase.
	for _, p := range categoryPatterns {
		if match := p.pattern.FindString(lower); match != "" {
			return p.normalized
		}
	}

	if category[0] >= 'a' && category[0] <= 'z' {
		category = strings.ToUpper(category[:1]) + category[1:]
	}
	return category
}

// parseYear converts a free-text year to an int pointer, nil when absent or
// unparseable.
func parseYear(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &year
}

// awardKey builds the (ceremony, category, year) lookup key shared by the
// award node pass and the nomination pass.
func awardKey(ceremony, category string, year *int) string {
	y := ""
	if year != nil {
		y = strconv.Itoa(*year)
	}
	return ceremony + "\x00" + category + "\x00" + y
}

// addAwardNodes inserts Award nodes and builds the nomination lookup keyed by
// the normalized (ceremony, category, year) triple.
func (a *Assembler) addAwardNodes(rows []types.AwardRow) {
	if a.awardByKey == nil {
		a.awardByKey = make(map[string]string)
	}
	added := 0
	for _, row := range rows {
		nodeID := fmt.Sprintf("award_%s", row.ID)
		year := parseYear(row.Year)
		node := &types.Node{
			ID:       nodeID,
			Kind:     types.AwardNode,
			Name:     row.Name,
			Ceremony: strings.TrimSpace(row.Ceremony),
			Category: strings.TrimSpace(row.Category),
			Year:     year,
		}
		if err := a.model.AddNode(node); err != nil {
			a.log.Debug("skipping award row", "id", row.ID, "error", err)
			continue
		}
		if node.Ceremony != "" && node.Category != "" {
			a.awardByKey[awardKey(node.Ceremony, node.Category, year)] = nodeID
		}
		added++
	}
	a.log.Info("added award nodes", "count", added, "keys", len(a.awardByKey))
}

// addAwardNominationEdges resolves each artist's free-text award entries to
// materialized Award nodes and links them. A nomination ever observed as won
// escalates the edge status to won and never downgrades.
func (a *Assembler) addAwardNominationEdges(nominations map[string][]types.NominationRecord) {
	if len(a.awardByKey) == 0 {
		a.log.Warn("no award nodes materialized, skipping nominations")
		return
	}

	artistNames := make([]string, 0, len(nominations))
	for name := range nominations {
		artistNames = append(artistNames, name)
	}
	sort.Strings(artistNames)

	added := 0
	for _, artistName := range artistNames {
		performerID, ok := a.model.ResolvePerformer(artistName)
		if !ok {
			a.stats.NominationArtistsUnresolved++
			a.log.Debug("nomination artist not found", "name", artistName)
			continue
		}

		for _, record := range nominations[artistName] {
			ceremony := normalizeCeremony(record.Ceremony)
			category := normalizeCategory(record.Category)
			if ceremony == "" || record.Category == "" {
				a.stats.NominationsSkipped++
				continue
			}
			year := parseYear(record.Year)

			awardID, ok := a.awardByKey[awardKey(ceremony, category, year)]
			if !ok && year != nil {
				// Some feeds omit the year on the award side.
				awardID, ok = a.awardByKey[awardKey(ceremony, category, nil)]
			}
			if !ok {
				a.stats.NominationAwardsUnresolved++
				a.log.Debug("award node not found", "ceremony", ceremony, "category", category)
				continue
			}

			status := record.Status
			if status == "" {
				status = types.StatusNominated
			}

			if edge, exists := a.model.Edge(performerID, awardID, types.AwardNomination); exists {
				if status == types.StatusWon && edge.Status != types.StatusWon {
					edge.Status = types.StatusWon
				}
				continue
			}
			inserted, err := a.model.AddEdge(&types.Edge{
				From:   performerID,
				To:     awardID,
				Kind:   types.AwardNomination,
				Status: status,
				Year:   year,
			})
			if err == nil && inserted {
				added++
			}
		}
	}

	a.log.Info("added award_nomination edges",
		"count", added,
		"skipped", a.stats.NominationsSkipped,
		"artists_unresolved", a.stats.NominationArtistsUnresolved,
		"awards_unresolved", a.stats.NominationAwardsUnresolved)
}
