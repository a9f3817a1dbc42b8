package dto

import "github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"

type EvaluateFacilitiesRequest struct {
	Facilities []model.Facility `json:"facilities"`
}

type ExtractThreatRequest struct {
	Text string `json:"text"`
}

type GeocodeRequest struct {
	LocationName string `json:"locationName"`
}
