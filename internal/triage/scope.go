package triage

import (
	"strings"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// Scope controls whether and how an article's location is weighed.
type Scope string

const (
	ScopeNearMe Scope = "near_me"
	ScopeCity   Scope = "city"
	ScopeGlobal Scope = "global"
)

// ParseScope maps a query value to a Scope. Empty or unknown values fall back to city, and ok
// reports whether the value was recognised.
func ParseScope(s string) (scope Scope, ok bool) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeNearMe:
		return ScopeNearMe, true
	case ScopeCity:
		return ScopeCity, true
	case ScopeGlobal:
		return ScopeGlobal, true
	}
	return ScopeCity, false
}

// FilterConfig carries the per-request filter parameters. Strict is not request-controlled;
// the HTTP layer copies it from process configuration.
type FilterConfig struct {
	Location string
	Scope    Scope
	Strict   bool
}

// ScopeFilter narrows relevant articles down to the ones that plausibly concern the user's location.
type ScopeFilter struct {
	otherCities []string
}

func NewScopeFilter(otherCities []string) *ScopeFilter {
	return &ScopeFilter{otherCities: normalizeTerms(otherCities)}
}

// Filter returns the in-scope subset of articles, preserving input order.
//
//   - global scope, or no location: the input is returned unchanged.
//   - an article naming the location is kept.
//   - strict mode drops everything else.
//   - relaxed mode also keeps articles that name none of the other known cities, and falls
//     back to the whole input rather than returning nothing.
func (f *ScopeFilter) Filter(articles []model.Article, location string, scope Scope, strict bool) []model.Article {
	if scope == ScopeGlobal {
		return articles
	}

	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return articles
	}

	filtered := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		text := articleText(a)

		switch {
		case strings.Contains(text, loc):
			filtered = append(filtered, a)
		case strict:
		case !f.mentionsOtherCity(text, loc):
			filtered = append(filtered, a)
		}
	}

	if len(filtered) == 0 && !strict {
		return articles
	}
	return filtered
}

func (f *ScopeFilter) mentionsOtherCity(text, location string) bool {
	for _, city := range f.otherCities {
		if city == location {
			continue
		}
		if strings.Contains(text, city) {
			return true
		}
	}
	return false
}
