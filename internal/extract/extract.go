// Package extract pulls catalog skills out of free-form text such as job
// descriptions and resumes.
package extract

import (
	"context"
	"strings"

	"github.com/jonathan/techcareer-analyzer/internal/registry"
)

// Extractor identifies catalog skills mentioned in text.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]registry.Skill, error)
}

// RuleBased matches catalog terms and aliases against normalized text.
// It is deterministic and needs no network, so it doubles as the fallback
// when an LLM extractor is unavailable or fails.
type RuleBased struct {
	reg      *registry.Registry
	terms    map[string]string
	maxWords int
}

// NewRuleBased builds a rule-based extractor over the catalog.
func NewRuleBased(reg *registry.Registry) *RuleBased {
	terms := reg.Terms()
	maxWords := 1
	for term := range terms {
		if n := strings.Count(term, " ") + 1; n > maxWords {
			maxWords = n
		}
	}
	return &RuleBased{reg: reg, terms: terms, maxWords: maxWords}
}

// Extract scans the text for catalog terms. Multi-word terms match on word
// boundaries only, so "go" inside "going" never counts. Results are
// deduplicated in order of first appearance.
func (e *RuleBased) Extract(_ context.Context, text string) ([]registry.Skill, error) {
	tokens := strings.Split(registry.NormalizeKey(text), " ")

	seen := make(map[string]bool)
	var out []registry.Skill
	for i := range tokens {
		for n := e.maxWords; n >= 1; n-- {
			if i+n > len(tokens) {
				continue
			}
			term := strings.Join(tokens[i:i+n], " ")
			id, ok := e.terms[term]
			if !ok {
				// Sentence punctuation survives normalization because '.'
				// is meaningful in names like Node.js.
				id, ok = e.terms[strings.TrimRight(term, ".")]
			}
			if !ok || seen[id] {
				continue
			}
			if s, ok := e.reg.Get(id); ok {
				seen[id] = true
				out = append(out, s)
			}
		}
	}
	return out, nil
}

// Categorize splits skills into technical and soft display names, keeping
// the input order. Both slices are non-nil so they serialize as [] not null.
func Categorize(skills []registry.Skill) (technical, soft []string) {
	technical = []string{}
	soft = []string{}
	for _, s := range skills {
		if s.Category == registry.CategorySoft {
			soft = append(soft, s.Name)
		} else {
			technical = append(technical, s.Name)
		}
	}
	return technical, soft
}
