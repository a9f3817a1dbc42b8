package triage

import (
	"math"
	"strings"
	"time"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// Score components.
const (
	categoryScale      = 100
	locationMatchBonus = 50
	nearbyBonus        = 25
	globalBonus        = 20
	keywordHitPoints   = 5
	maxDensityBonus    = 20
)

// Scorer computes the composite priority used to rank in-scope articles.
type Scorer struct {
	taxonomy    *Taxonomy
	nearbyTerms []string
	globalTerms []string
	now         func() time.Time
}

// ScorerOption customises a Scorer.
type ScorerOption func(*Scorer)

// WithClock replaces the wall clock used for the recency component.
func WithClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) {
		s.now = now
	}
}

func NewScorer(taxonomy *Taxonomy, nearbyTerms, globalTerms []string, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		taxonomy:    taxonomy,
		nearbyTerms: normalizeTerms(nearbyTerms),
		globalTerms: normalizeTerms(globalTerms),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns a non-negative priority. Only the relative order of scores is meaningful.
//
// The keyword density term re-counts the same hits that earned the category bonus, so a
// single keyword contributes to both.
func (s *Scorer) Score(article model.Article, location string, scope Scope) int {
	text := articleText(article)
	m := s.taxonomy.scan(text)

	score := 0
	for _, c := range m.categories {
		score += int(math.Round(c.Weight * categoryScale))
	}

	score += s.locationScore(text, location, scope)
	score += recencyScore(article.PublishedAt, s.now())
	score += min(m.hits*keywordHitPoints, maxDensityBonus)

	return score
}

func (s *Scorer) locationScore(text, location string, scope Scope) int {
	if scope == ScopeGlobal {
		if containsAny(text, s.globalTerms) {
			return globalBonus
		}
		return 0
	}

	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return 0
	}
	if strings.Contains(text, loc) {
		return locationMatchBonus
	}
	if scope == ScopeNearMe && containsAny(text, s.nearbyTerms) {
		return nearbyBonus
	}
	return 0
}

// recencyScore rewards fresh articles. Missing or unparseable timestamps score zero.
func recencyScore(publishedAt string, now time.Time) int {
	published, ok := parsePublishedAt(publishedAt)
	if !ok {
		return 0
	}

	age := now.UTC().Sub(published)
	switch {
	case age < time.Hour:
		return 30
	case age < 6*time.Hour:
		return 20
	case age < 24*time.Hour:
		return 10
	}
	return 0
}

// parsePublishedAt accepts RFC 3339 timestamps with either a Z suffix or a numeric offset.
// Timestamps without a zone are rejected rather than guessed.
func parsePublishedAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
