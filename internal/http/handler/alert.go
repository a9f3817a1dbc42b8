package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/dto"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/mail"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/service"
)

type AlertHandler struct {
	alertService     service.AlertService
	recipientService service.RecipientService
}

func NewAlertHandler(alertService service.AlertService, recipientService service.RecipientService) *AlertHandler {
	return &AlertHandler{
		alertService:     alertService,
		recipientService: recipientService,
	}
}

func (h *AlertHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SendAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid alert request body", "error", err)
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email required"})
		return
	}

	threat, err := h.alertService.SendLatest(ctx, email, req.Location)
	switch {
	case errors.Is(err, service.ErrNoThreats):
		c.JSON(http.StatusNotFound, gin.H{"error": "No threats found"})
		return
	case errors.Is(err, mail.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Email service not configured"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "threatId": threat.ID})
}

func (h *AlertHandler) GetRecipient(c *gin.Context) {
	email, err := h.recipientService.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read alert recipient"})
		return
	}

	resp := dto.RecipientResponse{}
	if email != "" {
		resp.Email = &email
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AlertHandler) SetRecipient(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}

	email := ""
	if req.Email != nil {
		email = *req.Email
	}

	if err := h.recipientService.Set(ctx, email); err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store alert recipient"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
