package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/core/config"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/core/db"
)

type Stores struct {
	backend    string
	threats    ThreatStore
	recipients RecipientStore
	closeFn    func()
}

func NewStores(backend string, threats ThreatStore, recipients RecipientStore) *Stores {
	return &Stores{backend: backend, threats: threats, recipients: recipients, closeFn: func() {}}
}

func (s *Stores) Threats() ThreatStore {
	return s.threats
}

func (s *Stores) Recipients() RecipientStore {
	return s.recipients
}

func (s *Stores) Backend() string {
	return s.backend
}

// Close releases the backend connection, if any.
func (s *Stores) Close() {
	s.closeFn()
}

// Open builds the stores for the configured backend.
func Open(ctx context.Context, cfg config.StorageConfig) (*Stores, error) {
	switch cfg.Backend {
	case config.StorageRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		s := NewStores(cfg.Backend,
			NewRedisThreatStore(client, cfg.RedisPrefix),
			NewRedisRecipientStore(client, cfg.RedisPrefix))
		s.closeFn = func() { client.Close() }
		slog.InfoContext(ctx, "using redis storage", "prefix", cfg.RedisPrefix)
		return s, nil

	case config.StoragePostgres:
		database, err := db.New(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, err
		}
		s := NewStores(cfg.Backend,
			NewPostgresThreatStore(database),
			NewPostgresRecipientStore(database))
		s.closeFn = database.Close
		slog.InfoContext(ctx, "using postgres storage")
		return s, nil

	default:
		threats, err := NewFileThreatStore(cfg.ThreatsFile)
		if err != nil {
			return nil, err
		}
		recipients, err := NewFileRecipientStore(cfg.RecipientFile)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "using file storage", "threats_file", cfg.ThreatsFile)
		return NewStores(config.StorageFile, threats, recipients), nil
	}
}
