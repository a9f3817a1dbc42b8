package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/dto"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/service"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/store"
)

type ThreatHandler struct {
	threatService service.ThreatService
}

func NewThreatHandler(threatService service.ThreatService) *ThreatHandler {
	return &ThreatHandler{threatService: threatService}
}

func (h *ThreatHandler) List(c *gin.Context) {
	threats, err := h.threatService.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read threats"})
		return
	}
	c.JSON(http.StatusOK, threats)
}

func (h *ThreatHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateThreatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid threat body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	threat, err := h.threatService.Create(ctx, req.Threat, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			c.JSON(http.StatusConflict, gin.H{"error": "Threat already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store threat"})
		return
	}

	c.JSON(http.StatusOK, dto.ThreatResponse{Status: "ok", Threat: threat})
}

func (h *ThreatHandler) Delete(c *gin.Context) {
	err := h.threatService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Threat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete threat"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ThreatHandler) SeedDemo(c *gin.Context) {
	added, total, err := h.threatService.SeedDemo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.DemoSeedResponse{Status: "ok", Added: added, Total: total})
}

func (h *ThreatHandler) ClearDemo(c *gin.Context) {
	removed, remaining, err := h.threatService.ClearEphemeral(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.DemoClearResponse{Status: "ok", Removed: removed, Remaining: remaining})
}
