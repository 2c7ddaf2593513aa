package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	// Prometheus metrics
	router.GET("/metrics", handler.Metrics)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Enrichment endpoints
		enrich := v1.Group("/enrich")
		{
			enrich.POST("", handler.Enrich)            // POST /api/v1/enrich
			enrich.POST("/batch", handler.EnrichBatch) // POST /api/v1/enrich/batch
		}

		// Message retrieval
		v1.GET("/messages/:id", handler.GetMessage) // GET /api/v1/messages/:id

		// Text utilities
		v1.POST("/text/decode", handler.DecodeText) // POST /api/v1/text/decode
	}
}
