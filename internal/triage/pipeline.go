package triage

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// Pipeline ranks raw articles for one request: classify, scope-filter, score, sort, truncate.
type Pipeline struct {
	classifier *Classifier
	filter     *ScopeFilter
	scorer     *Scorer
}

func NewPipeline(classifier *Classifier, filter *ScopeFilter, scorer *Scorer) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		filter:     filter,
		scorer:     scorer,
	}
}

// NewPipelineFromRules wires the three stages from one rule set.
func NewPipelineFromRules(rules Rules, opts ...ScorerOption) *Pipeline {
	v := rules.Vocabulary
	return NewPipeline(
		NewClassifier(rules.Taxonomy, v.EmergencyTerms),
		NewScopeFilter(v.OtherCities),
		NewScorer(rules.Taxonomy, v.NearbyTerms, v.GlobalTerms, opts...),
	)
}

type scored struct {
	article model.Article
	score   int
}

// Run returns at most limit articles (limit <= 0 means no cap), highest score first. Articles
// with equal scores keep their input order. It never fails: bad input only shrinks the result.
func (p *Pipeline) Run(ctx context.Context, articles []model.Article, cfg FilterConfig, limit int) []model.Article {
	relevant := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if p.classifier.IsRelevant(a, cfg.Strict) {
			relevant = append(relevant, a)
		}
	}

	inScope := p.filter.Filter(relevant, cfg.Location, cfg.Scope, cfg.Strict)

	ranked := make([]scored, len(inScope))
	for i, a := range inScope {
		ranked[i] = scored{article: a, score: p.scorer.Score(a, cfg.Location, cfg.Scope)}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]model.Article, len(ranked))
	for i, r := range ranked {
		out[i] = r.article
	}

	slog.DebugContext(ctx, "triage pipeline completed",
		"input", len(articles),
		"relevant", len(relevant),
		"in_scope", len(inScope),
		"returned", len(out),
		"strict", cfg.Strict)

	return out
}

// IsRelevant exposes the classifier stage.
func (p *Pipeline) IsRelevant(article model.Article, strict bool) bool {
	return p.classifier.IsRelevant(article, strict)
}

// Filter exposes the scope filter stage.
func (p *Pipeline) Filter(articles []model.Article, location string, scope Scope, strict bool) []model.Article {
	return p.filter.Filter(articles, location, scope, strict)
}

// Score exposes the scorer stage.
func (p *Pipeline) Score(article model.Article, location string, scope Scope) int {
	return p.scorer.Score(article, location, scope)
}
