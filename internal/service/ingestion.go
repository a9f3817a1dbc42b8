package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/logger"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/store"
)

const defaultYield = 1.0

// IngestionService turns raw news text into stored threats.
type IngestionService interface {
	// Process handles one feed item. Items whose ID is already stored are skipped and
	// yield (nil, nil). A stored threat is e-mailed to the alert recipient; delivery
	// failures are logged only.
	Process(ctx context.Context, item model.NewsItem) (*model.Threat, error)
	// Simulate runs the same extraction on a manually submitted item and stores the result.
	// A missing ID becomes "sim-<unix millis>".
	Simulate(ctx context.Context, item model.NewsItem) (model.Threat, error)
	Status() model.IngestionStatus
}

type ingestionService struct {
	assistant       Assistant
	threats         store.ThreatStore
	alerts          AlertService
	defaultDuration int
	now             func() time.Time

	mu     sync.RWMutex
	status model.IngestionStatus
}

func NewIngestionService(assistant Assistant, threats store.ThreatStore, alerts AlertService, defaultDurationMinutes int) IngestionService {
	if defaultDurationMinutes <= 0 {
		defaultDurationMinutes = 60
	}
	return &ingestionService{
		assistant:       assistant,
		threats:         threats,
		alerts:          alerts,
		defaultDuration: defaultDurationMinutes,
		now:             time.Now,
	}
}

func (s *ingestionService) Process(ctx context.Context, item model.NewsItem) (*model.Threat, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{NewsItemID: logger.Ptr(item.ID), Component: "ingestion"})

	sc := logger.StartSpan(ctx, "ingestion.process")
	defer sc.End()
	ctx = sc.Context()

	if item.ID == "" {
		return nil, fmt.Errorf("%w: news item has no id", ErrInvalidThreat)
	}

	exists, err := s.threats.Exists(ctx, item.ID)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("checking threat %s: %w", item.ID, err)
	}
	if exists {
		slog.DebugContext(ctx, "news item already ingested")
		return nil, nil
	}

	threat, err := s.build(ctx, item)
	if err != nil {
		sc.RecordError(err)
		return nil, err
	}

	if err := s.threats.Append(ctx, threat); err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("storing threat: %w", err)
	}

	processedAt := s.now().UTC().Format(time.RFC3339)
	s.mu.Lock()
	s.status = model.IngestionStatus{
		LastArticleTitle: logger.Ptr(threat.Name),
		LastProcessedAt:  &processedAt,
	}
	s.mu.Unlock()

	slog.InfoContext(ctx, "news item ingested",
		"threat_id", threat.ID,
		"name", threat.Name)

	if err := s.alerts.Notify(ctx, threat); err != nil {
		slog.ErrorContext(ctx, "failed to send alert for ingested threat",
			"error", err,
			"threat_id", threat.ID)
	}

	return &threat, nil
}

func (s *ingestionService) Simulate(ctx context.Context, item model.NewsItem) (model.Threat, error) {
	if item.ID == "" {
		item.ID = "sim-" + strconv.FormatInt(s.now().UnixMilli(), 10)
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{NewsItemID: logger.Ptr(item.ID), Component: "ingestion"})

	slog.InfoContext(ctx, "manual simulation requested", "text", logger.Truncate(item.Text, 50))

	threat, err := s.build(ctx, item)
	if err != nil {
		return model.Threat{}, err
	}
	if err := s.threats.Append(ctx, threat); err != nil {
		return model.Threat{}, fmt.Errorf("storing threat: %w", err)
	}

	slog.InfoContext(ctx, "manual simulation stored threat", "threat_id", threat.ID, "name", threat.Name)
	return threat, nil
}

func (s *ingestionService) Status() model.IngestionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// build runs extract, validate, geocode and validate, then assembles the threat.
func (s *ingestionService) build(ctx context.Context, item model.NewsItem) (model.Threat, error) {
	if strings.TrimSpace(item.Text) == "" {
		return model.Threat{}, fmt.Errorf("%w: empty text", ErrInvalidThreat)
	}

	extracted, err := s.assistant.ExtractThreat(ctx, item.Text)
	if err != nil {
		return model.Threat{}, err
	}
	if missing := extracted.MissingFields(); len(missing) > 0 {
		return model.Threat{}, fmt.Errorf("%w: extraction missing %s", ErrInvalidThreat, strings.Join(missing, ", "))
	}

	coords, err := s.assistant.Geocode(ctx, extracted.LocationName)
	if err != nil {
		return model.Threat{}, err
	}
	if !coords.Valid() {
		return model.Threat{}, fmt.Errorf("%w: coordinates out of range (%g, %g)", ErrInvalidThreat, coords.Lat, coords.Lng)
	}

	duration := extracted.DurationMinutes
	if duration <= 0 {
		duration = s.defaultDuration
	}
	yield := extracted.Yield
	if yield == 0 {
		yield = defaultYield
	}

	now := s.now().UTC()
	return model.Threat{
		ID:             item.ID,
		Name:           extracted.Name,
		LocationName:   extracted.LocationName,
		Location:       coords,
		Details:        extracted.Details,
		Yield:          yield,
		Timestamp:      now,
		ExpiresAt:      model.ExpiryAfter(now, duration),
		IncidentType:   extracted.IncidentType,
		HazardCategory: extracted.HazardCategory,
		Source:         model.SourceSimulationNews,
		RawText:        item.Text,
	}, nil
}
