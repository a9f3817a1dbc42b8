package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/llm"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// Facility fallback reasons. Every facility failure still answers with index 0, the nearest.
const (
	ReasonAINotConfigured = "AI not configured, defaulting to nearest."
	ReasonParsingFailed   = "Model output parsing failed."
	ReasonAIFailed        = "AI evaluation failed."
)

const jsonSystemPrompt = "You are a helpful assistant that outputs JSON."

var (
	facilitySchema   = llm.GenerateSchema[model.FacilitySelection]()
	extractionSchema = llm.GenerateSchema[model.ExtractedThreat]()
)

// Assistant wraps the LLM-backed utilities: facility ranking, threat extraction and geocoding.
type Assistant interface {
	// EvaluateFacilities fails only for an empty list; model trouble degrades to index 0.
	EvaluateFacilities(ctx context.Context, facilities []model.Facility) (model.FacilitySelection, error)
	ExtractThreat(ctx context.Context, text string) (model.ExtractedThreat, error)
	Geocode(ctx context.Context, locationName string) (model.Coordinates, error)
	Enabled() bool
}

type assistant struct {
	client   llm.Client
	attempts int
}

// NewAssistant returns an Assistant backed by client. A nil client gives the unconfigured
// behaviour: fallbacks for facilities and ErrAIUnavailable for the rest.
func NewAssistant(client llm.Client) Assistant {
	return &assistant{client: client, attempts: 2}
}

func (a *assistant) Enabled() bool {
	return a.client != nil
}

func (a *assistant) EvaluateFacilities(ctx context.Context, facilities []model.Facility) (model.FacilitySelection, error) {
	if len(facilities) == 0 {
		return model.FacilitySelection{}, ErrNoFacilities
	}
	if a.client == nil {
		slog.InfoContext(ctx, "no LLM configured, returning first facility")
		return model.FacilitySelection{SelectedIndex: 0, Reason: ReasonAINotConfigured}, nil
	}

	var sel model.FacilitySelection
	err := a.chat(ctx, llm.Request{
		SystemPrompt: jsonSystemPrompt,
		UserPrompt:   facilityPrompt(facilities),
		SchemaName:   "facility_selection",
		Schema:       facilitySchema,
		MaxTokens:    200,
		Temperature:  llm.Temp(0.2),
	}, &sel)
	switch {
	case errors.Is(err, llm.ErrInvalidJSON):
		slog.WarnContext(ctx, "facility evaluation returned invalid JSON", "error", err)
		return model.FacilitySelection{SelectedIndex: 0, Reason: ReasonParsingFailed}, nil
	case err != nil:
		slog.ErrorContext(ctx, "facility evaluation failed", "error", err)
		return model.FacilitySelection{SelectedIndex: 0, Reason: ReasonAIFailed}, nil
	}

	if sel.SelectedIndex < 0 || sel.SelectedIndex >= len(facilities) {
		slog.WarnContext(ctx, "facility evaluation picked an unknown index",
			"selected_index", sel.SelectedIndex,
			"candidates", len(facilities))
		return model.FacilitySelection{SelectedIndex: 0, Reason: ReasonParsingFailed}, nil
	}

	slog.InfoContext(ctx, "facility selected",
		"selected_index", sel.SelectedIndex,
		"facility", facilities[sel.SelectedIndex].Name)
	return sel, nil
}

func (a *assistant) ExtractThreat(ctx context.Context, text string) (model.ExtractedThreat, error) {
	if a.client == nil {
		return model.ExtractedThreat{}, ErrAIUnavailable
	}

	var out model.ExtractedThreat
	err := a.chat(ctx, llm.Request{
		SystemPrompt: jsonSystemPrompt,
		UserPrompt:   fmt.Sprintf(extractPrompt, text),
		SchemaName:   "threat_extraction",
		Schema:       extractionSchema,
		MaxTokens:    300,
		Temperature:  llm.Temp(0.1),
	}, &out)
	if errors.Is(err, llm.ErrInvalidJSON) {
		return model.ExtractedThreat{}, fmt.Errorf("%w: %v", ErrInvalidAIOutput, err)
	}
	if err != nil {
		return model.ExtractedThreat{}, fmt.Errorf("extracting threat: %w", err)
	}

	slog.DebugContext(ctx, "threat extracted",
		"name", out.Name,
		"location_name", out.LocationName)
	return out, nil
}

type geocodeResult struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (a *assistant) Geocode(ctx context.Context, locationName string) (model.Coordinates, error) {
	if a.client == nil {
		return model.Coordinates{}, ErrAIUnavailable
	}

	var out geocodeResult
	err := a.chat(ctx, llm.Request{
		SystemPrompt: jsonSystemPrompt,
		UserPrompt:   fmt.Sprintf(geocodePrompt, locationName),
		MaxTokens:    100,
		Temperature:  llm.Temp(0.1),
	}, &out)
	if errors.Is(err, llm.ErrInvalidJSON) {
		return model.Coordinates{}, fmt.Errorf("%w: %v", ErrInvalidAIOutput, err)
	}
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("geocoding %q: %w", locationName, err)
	}
	if out.Lat == nil || out.Lng == nil {
		return model.Coordinates{}, fmt.Errorf("%w: lat or lng missing", ErrInvalidAIOutput)
	}

	return model.Coordinates{Lat: *out.Lat, Lng: *out.Lng}, nil
}

// chat retries once on transient provider errors.
func (a *assistant) chat(ctx context.Context, req llm.Request, result any) error {
	var err error
	for attempt := 1; attempt <= a.attempts; attempt++ {
		_, err = a.client.Chat(ctx, req, result)
		if err == nil || errors.Is(err, llm.ErrInvalidJSON) || !llm.IsRetryable(ctx, err) {
			return err
		}
	}
	return err
}

func facilityPrompt(facilities []model.Facility) string {
	var candidates strings.Builder
	for i, f := range facilities {
		fmt.Fprintf(&candidates, "%d. Name: %s, Types: [%s], Distance: %gm\n",
			i, f.Name, strings.Join(f.Types, ", "), f.Distance)
	}
	return fmt.Sprintf(facilityPromptTemplate, candidates.String())
}

const facilityPromptTemplate = `You are an emergency medical logistics AI. Evaluate the following list of medical facilities found near an evacuation zone. Your goal is to select the BEST destination for a potential mass casualty or emergency situation.

CRITICAL RULES:
- ONLY select facilities that are ACTUAL MEDICAL FACILITIES (hospitals, clinics, urgent care)
- IMMEDIATELY REJECT: Churches, temples, mosques, religious buildings, shops, restaurants, dentists, veterinarians
- If a facility name or type suggests it is NOT a medical facility, DO NOT select it

Priorities:
1. TIER 1: Major Hospitals, Trauma Centers, Medical Centers, General Hospitals (Highest Priority)
2. TIER 2: Urgent Care Centers, Emergency Clinics, Multi-Specialty Clinics
3. TIER 3: Small Clinics, Doctor's Offices, Health Centers
4. TIER 4: Pharmacies, Medical Stores (Avoid unless only option)

Selection Rules:
- Prefer a Tier 1 facility even if it is up to 3km further than a Tier 3 facility
- Within the same Tier, choose the closest one
- If you see ANY non-medical facility in the list, skip it entirely
- Look for keywords: 'Hospital', 'Medical Center', 'Clinic', 'Health', 'Emergency', 'Urgent Care'

CANDIDATES:
%s

Respond with a JSON object ONLY: { "selected_index": <int>, "reason": "<short explanation mentioning facility type and why it was chosen>" }`

const extractPrompt = `You are a strict emergency threat extractor. Output only valid JSON with the exact fields specified. If some information is not explicitly in the text, infer a reasonable value based on the scenario.

Required Output Fields:
- name (Short title, e.g., 'Industrial Chemical Leak')
- locationName (Area/city, e.g., 'Lingarajapuram, Bengaluru')
- details (One or two sentences summary)
- yield (Numeric severity approximation 0.5-50. Infer from words like 'massive', 'minor')
- durationMinutes (Estimated active threat duration. Small=30-60, Large=120+)
- incidentType (e.g., 'chemical_leak', 'explosion', 'fire')
- hazardCategory (e.g., 'chemical', 'thermal', 'structural')

INPUT TEXT:
%s

Respond with JSON only.`

const geocodePrompt = `You are a geocoding assistant. Given a locationName string, look up its approximate latitude and longitude using your knowledge. Output only JSON with 'lat' and 'lng' as decimal degrees.

Location: %s

Respond with JSON only: { "lat": 12.34, "lng": 56.78 }`
