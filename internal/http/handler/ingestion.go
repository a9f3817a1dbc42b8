package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/dto"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/service"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/store"
)

type IngestionHandler struct {
	ingestionService service.IngestionService
}

func NewIngestionHandler(ingestionService service.IngestionService) *IngestionHandler {
	return &IngestionHandler{ingestionService: ingestionService}
}

func (h *IngestionHandler) Simulate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SimulateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid simulate body", "error", err)
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}

	threat, err := h.ingestionService.Simulate(ctx, model.NewsItem{ID: req.ID, Text: req.Text})
	switch {
	case errors.Is(err, service.ErrAIUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI service unavailable"})
		return
	case errors.Is(err, store.ErrDuplicateID):
		c.JSON(http.StatusConflict, gin.H{"error": "Threat already exists"})
		return
	case err != nil:
		slog.ErrorContext(ctx, "manual simulation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ThreatResponse{Status: "ok", Threat: threat})
}

func (h *IngestionHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.ingestionService.Status())
}
