package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/dto"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/handler"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/service"
)

type RouterConfig struct {
	News       handler.NewsDefaults
	Components dto.ComponentStatus
	MapsAPIKey string
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	healthHandler := handler.NewHealthHandler(services.Threats(), services.Ingestion(), cfg.Components)
	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)
	router.GET("/config", func(c *gin.Context) {
		c.JSON(200, gin.H{"googleMapsApiKey": cfg.MapsAPIKey})
	})

	assistantHandler := handler.NewAssistantHandler(services.Assistant())
	router.POST("/evaluate_facilities", assistantHandler.EvaluateFacilities)

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.POST("/evaluate-facilities", assistantHandler.EvaluateFacilities)
		AssistantRouter(api, assistantHandler)

		newsHandler := handler.NewNewsHandler(services.News(), cfg.News)
		ingestionHandler := handler.NewIngestionHandler(services.Ingestion())
		NewsRouter(api, newsHandler, ingestionHandler)

		alertHandler := handler.NewAlertHandler(services.Alerts(), services.Recipients())
		AlertRouter(api, alertHandler)

		threatHandler := handler.NewThreatHandler(services.Threats())
		ThreatRouter(api.Group("/threats"), threatHandler)
		DemoRouter(api.Group("/demo"), threatHandler)
	}
}
