// Package verbal renders ranked graph paths as natural-language context.
//
// The Verbalizer turns one triple into a sentence via per-relation templates;
// the ContextBuilder assembles the sentences of the top paths into a
// length-bounded context string for the answer generator.
package verbal

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tunegraph/tunegraph/pkg/types"
)

// FallbackContext is returned when there is nothing to verbalize.
const FallbackContext = "No relevant information found in the knowledge graph."

// Templates maps a relation type to its sentence templates. The first
// template is used for rendering; alternates exist for callers that want
// variety. Placeholders: {subject}, {object}, {relation}.
type Templates struct {
	Relations map[string][]string `yaml:"relations"`
	Default   []string            `yaml:"default"`
}

// DefaultTemplates returns the built-in sentence templates.
func DefaultTemplates() Templates {
	return Templates{
		Relations: map[string][]string{
			"COLLABORATES_WITH": {
				"{subject} collaborated with {object}",
				"{subject} and {object} have collaborated",
			},
			"PERFORMS_ON": {
				"{subject} performs on {object}",
				"{object} features {subject}",
			},
			"SIMILAR_GENRE": {
				"{subject} plays a similar genre to {object}",
			},
			"HAS_GENRE": {
				"{subject} has the genre {object}",
				"{subject} plays {object}",
			},
			"SIGNED_WITH": {
				"{subject} is signed with {object}",
			},
			"MEMBER_OF": {
				"{subject} is a member of {object}",
				"{object} includes {subject} as a member",
			},
			"PART_OF": {
				"{subject} is a track on {object}",
			},
			"AWARD_NOMINATION": {
				"{subject} was nominated for {object}",
			},
		},
		Default: []string{
			"{subject} is connected to {object} through {relation}",
			"{subject} and {object} are linked by {relation}",
		},
	}
}

// LoadTemplates reads templates from a YAML file. An empty path or missing
// file yields the defaults without error.
func LoadTemplates(path string) (Templates, error) {
	templates := DefaultTemplates()
	if path == "" {
		return templates, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return templates, nil
		}
		return templates, fmt.Errorf("failed to read templates: %w", err)
	}
	var loaded Templates
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return templates, fmt.Errorf("failed to parse templates: %w", err)
	}
	if len(loaded.Relations) > 0 {
		templates.Relations = loaded.Relations
	}
	if len(loaded.Default) > 0 {
		templates.Default = loaded.Default
	}
	return templates, nil
}

// Verbalizer renders triples as sentences.
type Verbalizer struct {
	templates Templates
}

// NewVerbalizer creates a Verbalizer with the given templates.
func NewVerbalizer(templates Templates) *Verbalizer {
	return &Verbalizer{templates: templates}
}

// Verbalize renders a single triple using the first template of its relation
// type, falling back to the generic template for unknown relations.
func (v *Verbalizer) Verbalize(t types.Triple) string {
	candidates := v.templates.Relations[t.Relation]
	if len(candidates) == 0 {
		candidates = v.templates.Default
	}
	template := candidates[0]
	return strings.NewReplacer(
		"{subject}", formatEntityName(t.Subject),
		"{object}", formatEntityName(t.Object),
		"{relation}", formatRelationName(t.Relation),
	).Replace(template)
}

// VerbalizeAll renders every triple in order.
func (v *Verbalizer) VerbalizeAll(triples []types.Triple) []string {
	out := make([]string, 0, len(triples))
	for _, t := range triples {
		out = append(out, v.Verbalize(t))
	}
	return out
}

// formatEntityName quotes names containing whitespace or quote/paren
// characters so template substitution stays unambiguous.
func formatEntityName(name string) string {
	if strings.ContainsAny(name, " \t()\"'") {
		return `"` + name + `"`
	}
	return name
}

// formatRelationName lowercases a relation type into readable prose, e.g.
// COLLABORATES_WITH -> "Collaborates with".
func formatRelationName(relation string) string {
	readable := strings.ToLower(strings.ReplaceAll(relation, "_", " "))
	if readable == "" {
		return readable
	}
	return strings.ToUpper(readable[:1]) + readable[1:]
}
