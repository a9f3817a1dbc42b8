package dto

import "github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"

// CreateThreatRequest is a threat plus an optional lifetime. A positive DurationMinutes
// overrides any expiresAt in the body.
type CreateThreatRequest struct {
	model.Threat
	DurationMinutes int `json:"durationMinutes"`
}

type ThreatResponse struct {
	Status string       `json:"status"`
	Threat model.Threat `json:"threat"`
}

type SimulateNewsRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type DemoSeedResponse struct {
	Status string `json:"status"`
	Added  int    `json:"added"`
	Total  int    `json:"total"`
}

type DemoClearResponse struct {
	Status    string `json:"status"`
	Removed   int    `json:"removed"`
	Remaining int    `json:"remaining"`
}
