package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/logger"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/news"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/triage"
)

type NewsService interface {
	// Search returns ranked articles for location and scope. Upstream failures yield an
	// empty list, never an error.
	Search(ctx context.Context, location string, scope triage.Scope) []model.Article
}

// MaxNewsResults caps every news response.
const MaxNewsResults = 20

type NewsOptions struct {
	Query   string
	Strict  bool
	Limit   int
	Timeout time.Duration
}

type newsService struct {
	client   news.Client
	pipeline *triage.Pipeline
	opts     NewsOptions
}

// NewNewsService clamps opts.Limit into 1..MaxNewsResults; a non-positive limit means the maximum.
func NewNewsService(client news.Client, pipeline *triage.Pipeline, opts NewsOptions) NewsService {
	if opts.Limit <= 0 || opts.Limit > MaxNewsResults {
		opts.Limit = MaxNewsResults
	}
	return &newsService{
		client:   client,
		pipeline: pipeline,
		opts:     opts,
	}
}

func (s *newsService) Search(ctx context.Context, location string, scope triage.Scope) []model.Article {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Location:  logger.Ptr(location),
		Scope:     logger.Ptr(string(scope)),
		Component: "news",
	})

	sc := logger.StartSpan(ctx, "news.search")
	defer sc.End()
	ctx = sc.Context()

	fetchCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	articles, err := s.client.Everything(fetchCtx, s.opts.Query)
	if err != nil {
		sc.RecordError(err)
		slog.WarnContext(ctx, "news fetch failed, returning no articles", "error", err)
		return []model.Article{}
	}

	cfg := triage.FilterConfig{
		Location: location,
		Scope:    scope,
		Strict:   s.opts.Strict,
	}
	out := s.pipeline.Run(ctx, articles, cfg, s.opts.Limit)

	slog.InfoContext(ctx, "news search completed",
		"fetched", len(articles),
		"returned", len(out))
	return out
}
