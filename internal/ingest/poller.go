package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/logger"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// Processor turns one news item into a stored threat. A nil threat with a nil error means
// the item was skipped.
type Processor interface {
	Process(ctx context.Context, item model.NewsItem) (*model.Threat, error)
}

type Poller struct {
	feed      Feed
	processor Processor
	interval  time.Duration

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewPoller(feed Feed, processor Processor, interval time.Duration) *Poller {
	return &Poller{
		feed:      feed,
		processor: processor,
		interval:  interval,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run polls the feed every interval until Stop is called or ctx is done. The first poll
// happens one interval after start.
func (p *Poller) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "ingest.poller"})

	defer close(p.stoppedCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "news ingestion started", "interval", p.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			slog.InfoContext(ctx, "news ingestion stopping")
			return
		case <-ticker.C:
			if err := p.pollOnceSafe(ctx); err != nil {
				if errors.Is(err, ErrUnreachable) {
					slog.WarnContext(ctx, "threat simulator not reachable", "error", err)
					continue
				}
				slog.ErrorContext(ctx, "poll cycle error", "error", err)
			}
		}
	}
}

// Stop signals the poller to stop and waits for the current cycle to finish.
func (p *Poller) Stop() {
	close(p.stopCh)
	<-p.stoppedCh
}

func (p *Poller) pollOnceSafe(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in poll cycle", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.PollOnce(ctx)
}

// PollOnce fetches and processes a single item.
func (p *Poller) PollOnce(ctx context.Context) error {
	item, err := p.feed.Next(ctx)
	if err != nil {
		return err
	}

	threat, err := p.processor.Process(ctx, item)
	if err != nil {
		return fmt.Errorf("processing news item %s: %w", item.ID, err)
	}
	if threat != nil {
		slog.InfoContext(ctx, "threat ingested from feed",
			"threat_id", threat.ID,
			"name", threat.Name)
	}
	return nil
}
