package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

var (
	ErrMissingAPIKey = errors.New("news api key is missing")
	ErrBadRequest    = errors.New("news api rejected the query")
	ErrUnauthorized  = errors.New("news api key is invalid or lacks permissions")
	ErrUnavailable   = errors.New("news api unavailable")
)

// Client fetches raw articles for a search expression.
type Client interface {
	Everything(ctx context.Context, query string) ([]model.Article, error)
}

type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	PageSize int
	// MaxRetries bounds the retries on 429 and 5xx. The caller's context deadline still wins.
	MaxRetries int
	Backoff    time.Duration
}

type everythingResponse struct {
	Status       string          `json:"status"`
	TotalResults int             `json:"totalResults"`
	Articles     []model.Article `json:"articles"`
	Code         string          `json:"code"`
	Message      string          `json:"message"`
}

type apiClient struct {
	http *http.Client
	cfg  Config
}

// NewClient returns a NewsAPI /everything client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://newsapi.org/v2"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	return &apiClient{http: httpClient, cfg: cfg}
}

func (c *apiClient) Everything(ctx context.Context, query string) ([]model.Article, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", c.cfg.Language)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(c.cfg.PageSize))
	endpoint := c.cfg.BaseURL + "/everything?" + params.Encode()

	backoff := c.cfg.Backoff
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			slog.WarnContext(ctx, "retrying news api request",
				"attempt", attempt,
				"backoff", backoff,
				"error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		articles, retry, err := c.do(ctx, endpoint)
		if err == nil {
			return articles, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *apiClient) do(ctx context.Context, endpoint string) (articles []model.Article, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building news request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("calling news api: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
	case res.StatusCode == http.StatusBadRequest:
		return nil, false, ErrBadRequest
	case res.StatusCode == http.StatusUnauthorized, res.StatusCode == http.StatusForbidden:
		return nil, false, ErrUnauthorized
	case res.StatusCode == http.StatusTooManyRequests, res.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)
	default:
		return nil, false, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, res.StatusCode)
	}

	var body everythingResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("decoding news response: %w", err)
	}
	if body.Status != "" && body.Status != "ok" {
		return nil, false, fmt.Errorf("%w: %s %s", ErrUnavailable, body.Code, body.Message)
	}

	slog.DebugContext(ctx, "news api request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"total_results", body.TotalResults,
		"articles", len(body.Articles))

	if body.Articles == nil {
		body.Articles = []model.Article{}
	}
	return body.Articles, false, nil
}
