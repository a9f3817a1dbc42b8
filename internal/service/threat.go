package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/id"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/store"
)

// CleanupResult summarises a pass that drops threats from the store.
type CleanupResult struct {
	RemovedExpired   int
	RemovedEphemeral int
	Seeded           bool
	Remaining        int
}

type ThreatService interface {
	ListActive(ctx context.Context) ([]model.Threat, error)
	// Latest returns the most recently stored threat, expired or not.
	Latest(ctx context.Context) (model.Threat, error)
	// Create fills in a missing ID, timestamp and source, and sets the expiry from
	// durationMinutes when positive.
	Create(ctx context.Context, threat model.Threat, durationMinutes int) (model.Threat, error)
	Delete(ctx context.Context, id string) error
	// Initialize is the startup cleanup: expired and non-durable threats are dropped and the
	// demo threat is seeded when seedDemo is set.
	Initialize(ctx context.Context, seedDemo bool) (CleanupResult, error)
	// SeedDemo replaces every non-durable threat with the fixed demonstration scenarios.
	SeedDemo(ctx context.Context) (added, total int, err error)
	// ClearEphemeral drops every non-durable threat.
	ClearEphemeral(ctx context.Context) (removed, remaining int, err error)
}

type threatService struct {
	store store.ThreatStore
	now   func() time.Time
}

func NewThreatService(threatStore store.ThreatStore) ThreatService {
	return &threatService{store: threatStore, now: time.Now}
}

func (s *threatService) ListActive(ctx context.Context) ([]model.Threat, error) {
	threats, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing threats: %w", err)
	}
	return model.ActiveThreats(threats, s.now()), nil
}

func (s *threatService) Latest(ctx context.Context) (model.Threat, error) {
	threats, err := s.store.List(ctx)
	if err != nil {
		return model.Threat{}, fmt.Errorf("listing threats: %w", err)
	}
	if len(threats) == 0 {
		return model.Threat{}, ErrNoThreats
	}
	return threats[len(threats)-1], nil
}

func (s *threatService) Create(ctx context.Context, threat model.Threat, durationMinutes int) (model.Threat, error) {
	now := s.now().UTC()
	if threat.ID == "" {
		threat.ID = id.NewString("threat")
	}
	if threat.Timestamp.IsZero() {
		threat.Timestamp = now
	}
	if threat.Source == "" {
		threat.Source = model.SourceAdmin
	}
	if durationMinutes > 0 {
		threat.ExpiresAt = model.ExpiryAfter(now, durationMinutes)
	}

	if err := s.store.Append(ctx, threat); err != nil {
		slog.ErrorContext(ctx, "failed to store threat",
			"error", err,
			"threat_id", threat.ID)
		return model.Threat{}, fmt.Errorf("storing threat: %w", err)
	}

	slog.InfoContext(ctx, "threat added",
		"threat_id", threat.ID,
		"name", threat.Name,
		"expires_at", threat.ExpiresAt)
	return threat, nil
}

func (s *threatService) Delete(ctx context.Context, threatID string) error {
	if err := s.store.Delete(ctx, threatID); err != nil {
		return fmt.Errorf("deleting threat %s: %w", threatID, err)
	}
	slog.InfoContext(ctx, "threat deleted", "threat_id", threatID)
	return nil
}

func (s *threatService) Initialize(ctx context.Context, seedDemo bool) (CleanupResult, error) {
	threats, err := s.store.List(ctx)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("listing threats: %w", err)
	}

	now := s.now()
	var res CleanupResult
	kept := make([]model.Threat, 0, len(threats))
	hasDemo := false
	for _, t := range threats {
		switch {
		case t.Expired(now):
			res.RemovedExpired++
		case !t.Durable():
			res.RemovedEphemeral++
		default:
			kept = append(kept, t)
			hasDemo = hasDemo || t.ID == model.DemoThreatID
		}
	}

	if seedDemo && !hasDemo {
		kept = append(kept, model.DemoThreat(now))
		res.Seeded = true
	}
	res.Remaining = len(kept)

	if res.RemovedExpired == 0 && res.RemovedEphemeral == 0 && !res.Seeded {
		slog.InfoContext(ctx, "loaded existing threats, no cleanup needed", "count", len(kept))
		return res, nil
	}

	if err := s.store.Replace(ctx, kept); err != nil {
		return CleanupResult{}, fmt.Errorf("replacing threats: %w", err)
	}

	slog.InfoContext(ctx, "threat cleanup complete",
		"before", len(threats),
		"removed_expired", res.RemovedExpired,
		"removed_ephemeral", res.RemovedEphemeral,
		"seeded", res.Seeded,
		"remaining", res.Remaining)
	return res, nil
}

func (s *threatService) SeedDemo(ctx context.Context) (int, int, error) {
	durable, _, err := s.durable(ctx)
	if err != nil {
		return 0, 0, err
	}

	demo := demoScenarios(s.now())
	all := append(durable, demo...)
	if err := s.store.Replace(ctx, all); err != nil {
		return 0, 0, fmt.Errorf("replacing threats: %w", err)
	}

	slog.InfoContext(ctx, "demo threats seeded",
		"added", len(demo),
		"kept", len(durable))
	return len(demo), len(all), nil
}

func (s *threatService) ClearEphemeral(ctx context.Context) (int, int, error) {
	durable, removed, err := s.durable(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := s.store.Replace(ctx, durable); err != nil {
		return 0, 0, fmt.Errorf("replacing threats: %w", err)
	}

	slog.InfoContext(ctx, "ephemeral threats cleared",
		"removed", removed,
		"remaining", len(durable))
	return removed, len(durable), nil
}

func (s *threatService) durable(ctx context.Context) ([]model.Threat, int, error) {
	threats, err := s.store.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing threats: %w", err)
	}
	kept := make([]model.Threat, 0, len(threats))
	for _, t := range threats {
		if t.Durable() {
			kept = append(kept, t)
		}
	}
	return kept, len(threats) - len(kept), nil
}

func demoScenarios(now time.Time) []model.Threat {
	now = now.UTC()
	suffix := strconv.FormatInt(now.UnixMilli(), 10)
	return []model.Threat{
		{
			ID:             "demo_mandur_" + suffix,
			Name:           "Waste Processing Plant Fire (Demo)",
			LocationName:   "Mandur, Bengaluru",
			Location:       model.Coordinates{Lat: 13.0716, Lng: 77.6946},
			Details:        "Demo scenario: waste processing plant fire releasing thick smoke.",
			Yield:          15,
			IncidentType:   "fire",
			HazardCategory: "thermal",
			Timestamp:      now,
			Source:         model.SourceDemo,
		},
		{
			ID:             "demo_whitefield_" + suffix,
			Name:           "Structural Collapse (Demo)",
			LocationName:   "Whitefield, Bengaluru",
			Location:       model.Coordinates{Lat: 12.9739, Lng: 77.7499},
			Details:        "Demo scenario: construction site structural collapse.",
			Yield:          25,
			IncidentType:   "structural_collapse",
			HazardCategory: "structural",
			Timestamp:      now,
			Source:         model.SourceDemo,
		},
		{
			ID:             "demo_ecity_" + suffix,
			Name:           "Chemical Spill (Demo)",
			LocationName:   "Electronic City, Bengaluru",
			Location:       model.Coordinates{Lat: 12.8452, Lng: 77.6602},
			Details:        "Demo scenario: chemical tanker spill on highway.",
			Yield:          10,
			IncidentType:   "chemical_leak",
			HazardCategory: "chemical",
			Timestamp:      now,
			Source:         model.SourceDemo,
		},
	}
}
