package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feral-file/tg-mention-indexer/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health and metrics (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public read access
		v1.GET("/tokens", handler.ListTokens)
		v1.GET("/tokens/:chain/:contract", handler.GetToken)
		v1.GET("/tokens/:chain/:contract/mentions", handler.GetTokenMentions)
		v1.GET("/tokens/:chain/:contract/history", handler.GetTokenHistory)
		v1.GET("/channels", handler.ListChannels)

		// Token indexing (requires API key authentication)
		v1.POST("/tokens/index", middleware.Auth(authCfg), handler.TriggerTokenIndexing)
	}
}
