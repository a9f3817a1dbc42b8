package news

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

type cachedClient struct {
	next   Client
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewCachedClient caches successful upstream responses in redis for ttl. Cache failures are
// logged and fall through to the upstream client.
func NewCachedClient(next Client, rdb redis.UniversalClient, prefix string, ttl time.Duration) Client {
	return &cachedClient{next: next, redis: rdb, prefix: prefix, ttl: ttl}
}

func (c *cachedClient) Everything(ctx context.Context, query string) ([]model.Article, error) {
	key := c.key(query)

	if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var articles []model.Article
		if err := json.Unmarshal(raw, &articles); err == nil {
			slog.DebugContext(ctx, "news cache hit", "articles", len(articles))
			return articles, nil
		}
		slog.WarnContext(ctx, "discarding undecodable news cache entry")
	} else if err != redis.Nil {
		slog.WarnContext(ctx, "news cache read failed", "error", err)
	}

	articles, err := c.next.Everything(ctx, query)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(articles); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			slog.WarnContext(ctx, "news cache write failed", "error", err)
		}
	}
	return articles, nil
}

func (c *cachedClient) key(query string) string {
	sum := sha256.Sum256([]byte(query))
	return c.prefix + ":news:" + hex.EncodeToString(sum[:])
}
