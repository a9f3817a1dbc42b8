package model

import "time"

// Threat sources.
const (
	SourceAdmin          = "admin"
	SourceSimulationNews = "simulation_news"
	SourceDemo           = "demo"
)

// DemoThreatID identifies the seeded threat that survives every restart.
const DemoThreatID = "test-threat-001"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are within the WGS84 ranges.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Threat is a mapped incident. Yield is a severity in kg TNT equivalent.
type Threat struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	LocationName   string      `json:"locationName"`
	Location       Coordinates `json:"location"`
	Details        string      `json:"details"`
	Yield          float64     `json:"yield"`
	Timestamp      time.Time   `json:"timestamp"`
	ExpiresAt      *time.Time  `json:"expiresAt,omitempty"`
	IncidentType   string      `json:"incidentType,omitempty"`
	HazardCategory string      `json:"hazardCategory,omitempty"`
	Source         string      `json:"source"`
	RawText        string      `json:"rawText,omitempty"`
	Persistent     bool        `json:"persistent,omitempty"`
}

// Expired reports whether the threat has an expiry at or before now. Threats without an
// expiry never expire.
func (t Threat) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}

// Durable reports whether the threat survives the startup cleanup.
func (t Threat) Durable() bool {
	return t.ID == DemoThreatID || t.Source == SourceAdmin || t.Persistent
}

// ExpiryAfter returns now+minutes, or nil when minutes is not positive.
func ExpiryAfter(now time.Time, minutes int) *time.Time {
	if minutes <= 0 {
		return nil
	}
	at := now.Add(time.Duration(minutes) * time.Minute).UTC()
	return &at
}

// ActiveThreats returns the threats that have not expired at now, keeping order.
func ActiveThreats(threats []Threat, now time.Time) []Threat {
	out := make([]Threat, 0, len(threats))
	for _, t := range threats {
		if !t.Expired(now) {
			out = append(out, t)
		}
	}
	return out
}

// DemoThreat is the fixed threat seeded at startup.
func DemoThreat(now time.Time) Threat {
	return Threat{
		ID:           DemoThreatID,
		Name:         "test01",
		LocationName: "Lingarajapuram, Bengaluru",
		Location:     Coordinates{Lat: 13.013251, Lng: 77.624151},
		Details:      "Demo threat seeded at startup.",
		Yield:        7700,
		Timestamp:    now.UTC(),
		Source:       SourceAdmin,
	}
}

// ExtractedThreat is the structured reading of a free-text incident report.
type ExtractedThreat struct {
	Name            string  `json:"name" jsonschema:"description=Short title such as Industrial Chemical Leak"`
	LocationName    string  `json:"locationName" jsonschema:"description=Area and city such as Lingarajapuram, Bengaluru"`
	Details         string  `json:"details" jsonschema:"description=One or two sentence summary"`
	Yield           float64 `json:"yield" jsonschema:"description=Numeric severity approximation between 0.5 and 50"`
	DurationMinutes int     `json:"durationMinutes" jsonschema:"description=Estimated active duration in minutes"`
	IncidentType    string  `json:"incidentType" jsonschema:"description=e.g. chemical_leak, explosion, fire"`
	HazardCategory  string  `json:"hazardCategory" jsonschema:"description=e.g. chemical, thermal, structural"`
}

// MissingFields lists the required fields that are empty.
func (e ExtractedThreat) MissingFields() []string {
	var missing []string
	if e.Name == "" {
		missing = append(missing, "name")
	}
	if e.LocationName == "" {
		missing = append(missing, "locationName")
	}
	if e.Details == "" {
		missing = append(missing, "details")
	}
	return missing
}
