package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/dto"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/service"
)

// AssistantHandler serves the LLM-backed utilities. Malformed bodies are treated as empty,
// so they get the same 400 as a missing field.
type AssistantHandler struct {
	assistant service.Assistant
}

func NewAssistantHandler(assistant service.Assistant) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

func (h *AssistantHandler) EvaluateFacilities(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.EvaluateFacilitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid facilities body", "error", err)
	}
	if len(req.Facilities) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No facilities provided"})
		return
	}

	sel, err := h.assistant.EvaluateFacilities(ctx, req.Facilities)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No facilities provided"})
		return
	}
	c.JSON(http.StatusOK, sel)
}

func (h *AssistantHandler) ExtractThreat(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ExtractThreatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid extraction body", "error", err)
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}

	out, err := h.assistant.ExtractThreat(ctx, req.Text)
	switch {
	case errors.Is(err, service.ErrAIUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI service unavailable"})
		return
	case errors.Is(err, service.ErrInvalidAIOutput):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid JSON from AI"})
		return
	case err != nil:
		slog.ErrorContext(ctx, "threat extraction failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AssistantHandler) Geocode(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid geocode body", "error", err)
	}
	if strings.TrimSpace(req.LocationName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No locationName provided"})
		return
	}

	coords, err := h.assistant.Geocode(ctx, req.LocationName)
	switch {
	case errors.Is(err, service.ErrAIUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI service unavailable"})
		return
	case errors.Is(err, service.ErrInvalidAIOutput):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI returned invalid format"})
		return
	case err != nil:
		slog.ErrorContext(ctx, "geocoding failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, coords)
}
