package dto

import "github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"

type HealthResponse struct {
	Status        string                `json:"status"`
	UptimeSeconds float64               `json:"uptimeSeconds"`
	Components    ComponentStatus       `json:"components"`
	Threats       ThreatCount           `json:"threats"`
	NewsIngestion model.IngestionStatus `json:"newsIngestion"`
}

type ComponentStatus struct {
	Storage   string `json:"storage"`
	LLM       bool   `json:"llm"`
	Mail      bool   `json:"mail"`
	News      bool   `json:"news"`
	Ingestion bool   `json:"ingestion"`
}

type ThreatCount struct {
	ActiveCount int `json:"activeCount"`
}
