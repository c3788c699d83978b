package rank

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordTables holds the pure lookup data the ranker scores with. The
// tables can be overridden from a YAML file; a missing file falls back to the
// built-in defaults.
type KeywordTables struct {
	// RelationKeywords maps a relation type to the query phrases that signal
	// interest in it.
	RelationKeywords map[string][]string `yaml:"relation_keywords"`

	// ImportanceIndicators are substrings whose presence in a node name marks
	// the node as notable.
	ImportanceIndicators []string `yaml:"importance_indicators"`
}

// DefaultKeywordTables returns the built-in scoring tables.
func DefaultKeywordTables() KeywordTables {
	return KeywordTables{
		RelationKeywords: map[string][]string{
			"COLLABORATES_WITH": {"collaborat", "work with", "together", "feat", "featuring"},
			"AWARD_NOMINATION":  {"won", "award", "grammy", "prize", "winner", "nominat"},
			"SIMILAR_GENRE":     {"similar", "like", "sound like"},
			"HAS_GENRE":         {"genre", "style", "type of music", "kind of"},
			"PERFORMS_ON":       {"album", "song", "release", "perform"},
			"MEMBER_OF":         {"member", "band", "group", "part of"},
			"SIGNED_WITH":       {"label", "signed", "record deal"},
			"PART_OF":           {"track", "album", "appears on"},
		},
		ImportanceIndicators: []string{
			"grammy", "award", "winner", "legend", "icon",
			"billboard", "top", "best", "famous", "popular",
		},
	}
}

// LoadKeywordTables reads scoring tables from a YAML file. An empty path or a
// missing file yields the defaults without error; a malformed file is an
// error.
func LoadKeywordTables(path string) (KeywordTables, error) {
	tables := DefaultKeywordTables()
	if path == "" {
		return tables, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tables, nil
		}
		return tables, fmt.Errorf("failed to read keyword tables: %w", err)
	}
	var loaded KeywordTables
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return tables, fmt.Errorf("failed to parse keyword tables: %w", err)
	}
	if len(loaded.RelationKeywords) > 0 {
		tables.RelationKeywords = loaded.RelationKeywords
	}
	if len(loaded.ImportanceIndicators) > 0 {
		tables.ImportanceIndicators = loaded.ImportanceIndicators
	}
	return tables, nil
}
