package triage

import (
	"errors"
	"fmt"
	"strings"
)

// Priority is a display label attached to a threat category. It never affects filtering.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Category is one class of physical-safety threat and the phrases that identify it in free text.
type Category struct {
	ID       string   `yaml:"id"`
	Keywords []string `yaml:"keywords"`
	Weight   float64  `yaml:"weight"`
	Priority Priority `yaml:"priority"`
}

var (
	ErrEmptyTaxonomy   = errors.New("taxonomy has no categories")
	ErrInvalidCategory = errors.New("invalid category")
)

// Taxonomy is the immutable table of threat categories. Build it once at startup and share
// it by reference; nothing mutates it afterwards.
type Taxonomy struct {
	categories []Category
}

// NewTaxonomy validates the categories and returns a taxonomy holding lower-cased copies of them.
func NewTaxonomy(categories []Category) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, ErrEmptyTaxonomy
	}

	seen := make(map[string]struct{}, len(categories))
	copied := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: missing id", ErrInvalidCategory)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCategory, c.ID)
		}
		seen[c.ID] = struct{}{}

		if c.Weight <= 0 || c.Weight > 1 {
			return nil, fmt.Errorf("%w: %s weight %.2f outside (0, 1]", ErrInvalidCategory, c.ID, c.Weight)
		}
		if c.Priority == "" {
			c.Priority = PriorityMedium
		}
		if !c.Priority.valid() {
			return nil, fmt.Errorf("%w: %s priority %q", ErrInvalidCategory, c.ID, c.Priority)
		}

		keywords := normalizeTerms(c.Keywords)
		if len(keywords) == 0 {
			return nil, fmt.Errorf("%w: %s has no keywords", ErrInvalidCategory, c.ID)
		}

		copied = append(copied, Category{
			ID:       c.ID,
			Keywords: keywords,
			Weight:   c.Weight,
			Priority: c.Priority,
		})
	}

	return &Taxonomy{categories: copied}, nil
}

// DefaultTaxonomy returns the reference eight-category table.
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(defaultCategories)
	if err != nil {
		panic(fmt.Sprintf("default taxonomy: %v", err))
	}
	return t
}

// Categories returns a copy of the table in declaration order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		c.Keywords = append([]string(nil), c.Keywords...)
		out[i] = c
	}
	return out
}

// Query builds the upstream search expression from the first perCategory keywords of every
// category: OR-joined, multi-word phrases quoted, the whole wrapped in parentheses.
func (t *Taxonomy) Query(perCategory int) string {
	var terms []string
	for _, c := range t.categories {
		n := len(c.Keywords)
		if perCategory > 0 && perCategory < n {
			n = perCategory
		}
		for _, kw := range c.Keywords[:n] {
			if strings.Contains(kw, " ") {
				kw = `"` + kw + `"`
			}
			terms = append(terms, kw)
		}
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}

// match is the result of scanning one lower-cased text against the taxonomy.
type match struct {
	categories []Category
	hits       int
}

// scan reports every category with at least one keyword hit (each category once) and the raw
// number of keywords found across all categories.
func (t *Taxonomy) scan(text string) match {
	var m match
	for _, c := range t.categories {
		matched := false
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				m.hits++
				matched = true
			}
		}
		if matched {
			m.categories = append(m.categories, c)
		}
	}
	return m
}

// matchesAny stops at the first keyword hit.
func (t *Taxonomy) matchesAny(text string) bool {
	for _, c := range t.categories {
		if containsAny(text, c.Keywords) {
			return true
		}
	}
	return false
}

var defaultCategories = []Category{
	{
		ID:       "explosion",
		Keywords: []string{"explosion", "blast", "detonation", "bomb", "ied", "fireball", "cylinder blast", "explode", "blew up"},
		Weight:   1.0,
		Priority: PriorityHigh,
	},
	{
		ID:       "terror",
		Keywords: []string{"terror attack", "terrorist", "bombing", "active shooter", "hostage", "gunman", "armed attack"},
		Weight:   1.0,
		Priority: PriorityHigh,
	},
	{
		ID:       "chemical",
		Keywords: []string{"chemical leak", "toxic spill", "hazmat", "gas leak", "ammonia", "chlorine", "radiation", "toxic fumes"},
		Weight:   0.8,
		Priority: PriorityHigh,
	},
	{
		ID:       "fire",
		Keywords: []string{"wildfire", "forest fire", "brush fire", "blaze", "inferno", "fire spreading"},
		Weight:   0.8,
		Priority: PriorityMedium,
	},
	{
		ID:       "natural",
		Keywords: []string{"earthquake", "flood", "tsunami", "hurricane", "cyclone", "tornado", "landslide", "avalanche"},
		Weight:   0.7,
		Priority: PriorityMedium,
	},
	{
		ID:       "infrastructure",
		Keywords: []string{"power outage", "blackout", "grid failure", "dam breach", "bridge collapse"},
		Weight:   0.5,
		Priority: PriorityMedium,
	},
	{
		ID:       "structural",
		Keywords: []string{"building collapse", "structural failure", "construction accident", "collapse"},
		Weight:   0.6,
		Priority: PriorityMedium,
	},
	{
		ID:       "pandemic",
		Keywords: []string{"pandemic", "outbreak", "epidemic", "virus spread", "disease cluster", "contagion"},
		Weight:   0.4,
		Priority: PriorityLow,
	},
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
