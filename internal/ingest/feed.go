package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// ErrUnreachable is returned when the simulator refuses the connection or times out.
var ErrUnreachable = errors.New("threat simulator not reachable")

// Feed yields one raw news item per call.
type Feed interface {
	Next(ctx context.Context) (model.NewsItem, error)
}

type simulatorFeed struct {
	http    *http.Client
	baseURL string
}

// NewSimulatorFeed reads from GET {baseURL}/api/fake-news-threat. httpClient may be nil.
func NewSimulatorFeed(baseURL string, httpClient *http.Client) Feed {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &simulatorFeed{
		http:    httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (f *simulatorFeed) Next(ctx context.Context) (model.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/api/fake-news-threat", nil)
	if err != nil {
		return model.NewsItem{}, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return model.NewsItem{}, ctx.Err()
		}
		return model.NewsItem{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.NewsItem{}, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var item model.NewsItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return model.NewsItem{}, fmt.Errorf("decoding feed item: %w", err)
	}
	return item, nil
}
