// Package rank scores retrieved graph paths by relevance to a query.
//
// The score is a weighted sum of four independent sub-scores (path length,
// entity match, relation relevance, node importance), clamped to [0,1].
// Sorting is stable so equal scores keep input order and ranking stays
// deterministic.
package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/tunegraph/tunegraph/pkg/types"
)

// Sub-score weights and the length decay rate. The weights intentionally sum
// to 1.1; the final score is clamped.
const (
	lengthWeight     = 0.2
	lengthDecay      = 0.1
	entityWeight     = 0.4
	relationWeight   = 0.3
	importanceWeight = 0.2

	neutralScore      = 0.5
	baseImportance    = 0.3
	notableImportance = 0.8

	// DefaultTopK is how many ranked paths feed the context builder.
	DefaultTopK = 5
)

// Ranker orders paths by relevance.
type Ranker struct {
	tables KeywordTables
}

// New creates a Ranker with the given keyword tables.
func New(tables KeywordTables) *Ranker {
	return &Ranker{tables: tables}
}

// Rank scores every path against the query and its extracted entities and
// returns them ordered by score descending. The sort is stable: ties keep
// the store's length-ascending input order.
func (r *Ranker) Rank(paths []types.PathRecord, query string, entities []string) []types.RankedPath {
	ranked := make([]types.RankedPath, 0, len(paths))
	for _, path := range paths {
		ranked = append(ranked, types.RankedPath{
			Path:    path,
			Score:   r.score(path, query, entities),
			Triples: path.Triples(),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// FilterTop keeps the k best paths.
func FilterTop(ranked []types.RankedPath, k int) []types.RankedPath {
	if k <= 0 {
		k = DefaultTopK
	}
	if len(ranked) <= k {
		return ranked
	}
	return ranked[:k]
}

func (r *Ranker) score(path types.PathRecord, query string, entities []string) float64 {
	length := path.Length
	if length == 0 && len(path.NodeNames) > 0 {
		length = len(path.NodeNames) - 1
	}

	score := lengthWeight * math.Exp(-lengthDecay*float64(length))
	score += entityWeight * entityMatchScore(path.NodeNames, entities)
	score += relationWeight * r.relationRelevanceScore(path.RelationTypes, query)
	score += importanceWeight * r.nodeImportanceScore(path.NodeNames)
	return math.Min(1.0, score)
}

// entityMatchScore is the fraction of query entities that substring-match
// (case-insensitive, either direction) some node name on the path. With no
// query entities the score is neutral.
func entityMatchScore(nodeNames, entities []string) float64 {
	if len(entities) == 0 {
		return neutralScore
	}
	matches := 0
	for _, entity := range entities {
		needle := strings.ToLower(entity)
		for _, name := range nodeNames {
			haystack := strings.ToLower(name)
			if strings.Contains(haystack, needle) || strings.Contains(needle, haystack) {
				matches++
				break
			}
		}
	}
	return float64(matches) / float64(len(entities))
}

// relationRelevanceScore averages, over the path's relation types, 1.0 when
// one of the relation's keywords appears in the query and the neutral score
// otherwise.
func (r *Ranker) relationRelevanceScore(relTypes []string, query string) float64 {
	if len(relTypes) == 0 {
		return neutralScore
	}
	queryLower := strings.ToLower(query)
	total := 0.0
	for _, relType := range relTypes {
		relevance := neutralScore
		for _, keyword := range r.tables.RelationKeywords[relType] {
			if strings.Contains(queryLower, keyword) {
				relevance = 1.0
				break
			}
		}
		total += relevance
	}
	return total / float64(len(relTypes))
}

// nodeImportanceScore averages a fixed notable/base value per node depending
// on whether its name contains an importance indicator.
func (r *Ranker) nodeImportanceScore(nodeNames []string) float64 {
	if len(nodeNames) == 0 {
		return baseImportance
	}
	total := 0.0
	for _, name := range nodeNames {
		importance := baseImportance
		nameLower := strings.ToLower(name)
		for _, indicator := range r.tables.ImportanceIndicators {
			if strings.Contains(nameLower, indicator) {
				importance = notableImportance
				break
			}
		}
		total += importance
	}
	return total / float64(len(nodeNames))
}
