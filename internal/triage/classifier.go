package triage

import (
	"strings"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// Classifier decides whether an article talks about a physical-safety threat at all.
type Classifier struct {
	taxonomy       *Taxonomy
	emergencyTerms []string
}

func NewClassifier(taxonomy *Taxonomy, emergencyTerms []string) *Classifier {
	return &Classifier{
		taxonomy:       taxonomy,
		emergencyTerms: normalizeTerms(emergencyTerms),
	}
}

// IsRelevant reports whether any taxonomy keyword appears in the article's title or
// description. In relaxed mode (strict=false) generic emergency vocabulary also qualifies, so
// the relaxed accepted set always contains the strict one.
//
// Matching is plain case-insensitive substring search: "fireball" hits inside "fireballs",
// and so does "ied" inside "tried".
func (c *Classifier) IsRelevant(article model.Article, strict bool) bool {
	text := articleText(article)

	if c.taxonomy.matchesAny(text) {
		return true
	}
	if !strict && containsAny(text, c.emergencyTerms) {
		return true
	}
	return false
}

// articleText is the lower-cased "title description" string every stage matches against.
func articleText(a model.Article) string {
	return strings.ToLower(a.Title + " " + a.Description)
}
