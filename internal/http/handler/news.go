package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/dto"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/service"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/triage"
)

type NewsDefaults struct {
	Location string
	Scope    triage.Scope
}

type NewsHandler struct {
	newsService service.NewsService
	defaults    NewsDefaults
}

func NewNewsHandler(newsService service.NewsService, defaults NewsDefaults) *NewsHandler {
	return &NewsHandler{newsService: newsService, defaults: defaults}
}

// List always answers 200; upstream failures show up as an empty list.
func (h *NewsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	location := strings.TrimSpace(c.Query("location"))
	if location == "" {
		location = h.defaults.Location
	}

	scope := h.defaults.Scope
	if raw := c.Query("scope"); raw != "" {
		var ok bool
		scope, ok = triage.ParseScope(raw)
		if !ok {
			slog.WarnContext(ctx, "unknown scope, using city", "scope", raw)
		}
	}

	articles := h.newsService.Search(ctx, location, scope)
	c.JSON(http.StatusOK, dto.ToArticleResponses(articles))
}
