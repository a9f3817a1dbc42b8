package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/handler"
)

func AssistantRouter(rg *gin.RouterGroup, h *handler.AssistantHandler) {
	rg.POST("/extract-threat-info", h.ExtractThreat)
	rg.POST("/geocode", h.Geocode)
}

func NewsRouter(rg *gin.RouterGroup, news *handler.NewsHandler, ingestion *handler.IngestionHandler) {
	rg.GET("/news", news.List)
	rg.POST("/news/simulate", ingestion.Simulate)
	rg.GET("/ingestion/status", ingestion.Status)
}

func AlertRouter(rg *gin.RouterGroup, h *handler.AlertHandler) {
	rg.POST("/alert", h.Send)
	rg.GET("/alert-recipient", h.GetRecipient)
	rg.PUT("/alert-recipient", h.SetRecipient)
	rg.POST("/session/email", h.SetRecipient)
}

func ThreatRouter(rg *gin.RouterGroup, h *handler.ThreatHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:id", h.Delete)
}

func DemoRouter(rg *gin.RouterGroup, h *handler.ThreatHandler) {
	rg.POST("/seed", h.SeedDemo)
	rg.POST("/clear", h.ClearDemo)
}
