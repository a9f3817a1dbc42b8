package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/dto"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/service"
)

const Banner = "Threat news service running"

type HealthHandler struct {
	threatService    service.ThreatService
	ingestionService service.IngestionService
	components       dto.ComponentStatus
	startedAt        time.Time
}

func NewHealthHandler(threatService service.ThreatService, ingestionService service.IngestionService, components dto.ComponentStatus) *HealthHandler {
	return &HealthHandler{
		threatService:    threatService,
		ingestionService: ingestionService,
		components:       components,
		startedAt:        time.Now(),
	}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

func (h *HealthHandler) Health(c *gin.Context) {
	threats, err := h.threatService.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		Components:    h.components,
		Threats:       dto.ThreatCount{ActiveCount: len(threats)},
		NewsIngestion: h.ingestionService.Status(),
	})
}
