package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/id"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/llm"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/logger"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/otel"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/core/config"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/dto"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/handler"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/middleware"
	httprouter "github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/router"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/ingest"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/mail"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/news"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/service"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/store"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/triage"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, otel.DeploymentAttributes(cfg)...)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry.Enabled() {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint, "sample_ratio", cfg.OTel.SampleRatio)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "threat news service starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	stores, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open storage", "error", err, "backend", cfg.Storage.Backend)
		os.Exit(1)
	}
	defer stores.Close()

	rules := triage.DefaultRules()
	if cfg.Filter.RulesFile != "" {
		rules, err = triage.LoadRules(cfg.Filter.RulesFile)
		if err != nil {
			slog.ErrorContext(ctx, "failed to load triage rules", "error", err, "path", cfg.Filter.RulesFile)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "triage rules loaded", "path", cfg.Filter.RulesFile)
	}

	llmClient := setupLLM(ctx, cfg.LLM)

	newsClient, closeCache := setupNews(ctx, cfg)
	defer closeCache()

	sender := mail.NewSender(cfg.Mail)
	if !sender.Enabled() {
		slog.WarnContext(ctx, "mail not configured, alerts will not be sent")
	}

	services := service.NewServices(service.Deps{
		Stores:   stores,
		LLM:      llmClient,
		News:     newsClient,
		Sender:   sender,
		Pipeline: triage.NewPipelineFromRules(rules),
		NewsOptions: service.NewsOptions{
			Query:   rules.Taxonomy.Query(3),
			Strict:  cfg.Filter.Strict,
			Limit:   cfg.Filter.Limit,
			Timeout: cfg.News.Timeout,
		},
		DefaultDurationMinutes: cfg.Ingestion.DefaultDurationMinutes,
	})

	if _, err := services.Threats().Initialize(ctx, cfg.Ingestion.SeedDemoThreat); err != nil {
		slog.ErrorContext(ctx, "threat startup cleanup failed", "error", err)
		os.Exit(1)
	}

	var poller *ingest.Poller
	if cfg.Ingestion.Enabled() {
		poller = ingest.NewPoller(ingest.NewSimulatorFeed(cfg.Ingestion.SimulatorURL, nil), services.Ingestion(), cfg.Ingestion.PollInterval)
		go poller.Run(ctx)
	} else {
		slog.InfoContext(ctx, "news ingestion disabled (no SIMULATOR_URL)")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, stores.Backend(), llmClient != nil, sender.Enabled())
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if poller != nil {
		poller.Stop()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

// setupLLM returns nil when no key is configured; callers treat nil as "AI unavailable".
func setupLLM(ctx context.Context, cfg config.LLMConfig) llm.Client {
	if !cfg.Enabled() {
		slog.WarnContext(ctx, "LLM not configured, AI features disabled")
		return nil
	}

	client, err := llm.New(llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create LLM client, AI features disabled", "error", err)
		return nil
	}

	slog.InfoContext(ctx, "LLM client ready", "provider", cfg.Provider, "model", client.Model())
	return client
}

func setupNews(ctx context.Context, cfg config.Config) (news.Client, func()) {
	if !cfg.News.Enabled() {
		slog.WarnContext(ctx, "NEWS_API_KEY not set, /api/news will return no articles")
	}

	client := news.NewClient(news.Config{
		APIKey:     cfg.News.APIKey,
		BaseURL:    cfg.News.BaseURL,
		Language:   cfg.News.Language,
		PageSize:   cfg.News.PageSize,
		MaxRetries: 1,
	}, nil)

	if !cfg.News.CacheEnabled() {
		return client, func() {}
	}

	opts, err := redis.ParseURL(cfg.Storage.RedisURL)
	if err != nil {
		slog.WarnContext(ctx, "invalid redis url, news cache disabled", "error", err)
		return client, func() {}
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.WarnContext(ctx, "redis unreachable, news cache disabled", "error", err)
		rdb.Close()
		return client, func() {}
	}

	slog.InfoContext(ctx, "news cache enabled", "ttl", cfg.News.CacheTTL)
	return news.NewCachedClient(client, rdb, cfg.Storage.RedisPrefix, cfg.News.CacheTTL), func() { rdb.Close() }
}

func setupRouter(cfg config.Config, services *service.Services, backend string, llmEnabled, mailEnabled bool) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(cors.Default())
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	scope, _ := triage.ParseScope(cfg.Filter.DefaultScope)
	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		News: handler.NewsDefaults{
			Location: cfg.Filter.DefaultLocation,
			Scope:    scope,
		},
		Components: dto.ComponentStatus{
			Storage:   backend,
			LLM:       llmEnabled,
			Mail:      mailEnabled,
			News:      cfg.News.Enabled(),
			Ingestion: cfg.Ingestion.Enabled(),
		},
		MapsAPIKey: cfg.MapsAPIKey,
	})

	return router
}

const banner = `
 _   _                    _
| |_| |__  _ __ ___  __ _| |_   _ __   _____      _____
| __| '_ \| '__/ _ \/ _' | __| | '_ \ / _ \ \ /\ / / __|
| |_| | | | | |  __/ (_| | |_  | | | |  __/\ V  V /\__ \
 \__|_| |_|_|  \___|\__,_|\__| |_| |_|\___| \_/\_/ |___/
`
