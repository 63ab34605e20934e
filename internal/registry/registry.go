// Package registry provides the canonical catalog of known skills.
// The registry is built once at startup and is read-only afterwards,
// so it can be shared freely across concurrent requests.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Category classifies a skill as technical or soft.
type Category string

const (
	CategoryTechnical Category = "technical"
	CategorySoft      Category = "soft"
)

// Skill is a catalog entry. ID is the normalized identity used everywhere
// downstream; Name is the display form. Weight is the market weight in (0,1].
type Skill struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Weight   float64  `json:"weight"`
}

// Registry is an immutable skill catalog with alias resolution.
type Registry struct {
	byID    map[string]Skill
	aliases map[string]string // normalized alias -> skill ID
	ordered []Skill           // sorted by name for deterministic iteration
}

// NormalizeKey lowercases a skill name and strips punctuation that does not
// carry meaning, keeping '+' '#' '.' so "C++", "C#" and "Node.js" survive.
// Internal whitespace collapses to single spaces.
func NormalizeKey(name string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.':
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '/':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// New builds a registry from catalog entries and an alias table.
// Entries must have unique normalized names and weights in (0,1].
func New(skills []Skill, aliases map[string]string) (*Registry, error) {
	r := &Registry{
		byID:    make(map[string]Skill, len(skills)),
		aliases: make(map[string]string, len(aliases)),
	}
	for _, s := range skills {
		id := NormalizeKey(s.Name)
		if id == "" {
			return nil, fmt.Errorf("skill %q normalizes to empty identity", s.Name)
		}
		if _, dup := r.byID[id]; dup {
			return nil, fmt.Errorf("duplicate skill identity %q", id)
		}
		if s.Weight <= 0 || s.Weight > 1 {
			return nil, fmt.Errorf("skill %q weight %v outside (0,1]", s.Name, s.Weight)
		}
		if s.Category != CategoryTechnical && s.Category != CategorySoft {
			return nil, fmt.Errorf("skill %q has unknown category %q", s.Name, s.Category)
		}
		s.ID = id
		r.byID[id] = s
		r.ordered = append(r.ordered, s)
	}
	for alias, target := range aliases {
		targetID := NormalizeKey(target)
		if _, ok := r.byID[targetID]; !ok {
			return nil, fmt.Errorf("alias %q points to unknown skill %q", alias, target)
		}
		r.aliases[NormalizeKey(alias)] = targetID
	}
	sort.Slice(r.ordered, func(i, j int) bool { return r.ordered[i].Name < r.ordered[j].Name })
	return r, nil
}

// Get returns the skill for an exact identity.
func (r *Registry) Get(id string) (Skill, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// Resolve maps a free-form skill name to a catalog entry, following aliases.
// Returns false for names the catalog does not know.
func (r *Registry) Resolve(name string) (Skill, bool) {
	key := NormalizeKey(name)
	if key == "" {
		return Skill{}, false
	}
	if s, ok := r.byID[key]; ok {
		return s, true
	}
	if id, ok := r.aliases[key]; ok {
		return r.byID[id], true
	}
	return Skill{}, false
}

// ResolveAll resolves a list of free-form names into deduplicated catalog
// skills, preserving first-seen order. Unknown names are dropped: downstream
// computations only ever see registry identities.
func (r *Registry) ResolveAll(names []string) []Skill {
	seen := make(map[string]bool, len(names))
	out := make([]Skill, 0, len(names))
	for _, name := range names {
		s, ok := r.Resolve(name)
		if !ok || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}

// Terms returns every normalized term the catalog recognizes, both skill
// identities and aliases, mapped to the skill ID it resolves to.
func (r *Registry) Terms() map[string]string {
	out := make(map[string]string, len(r.byID)+len(r.aliases))
	for id := range r.byID {
		out[id] = id
	}
	for alias, id := range r.aliases {
		out[alias] = id
	}
	return out
}

// Skills returns all catalog entries sorted by display name.
func (r *Registry) Skills() []Skill {
	out := make([]Skill, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len reports the catalog size.
func (r *Registry) Len() int { return len(r.byID) }
