package api

import (
	"net/http"

	syncDelivery "github.com/gagangborneo/chatzwa-sub002/internal/sync/delivery"
	syncUsecase "github.com/gagangborneo/chatzwa-sub002/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, syncUc syncUsecase.SyncUsecase) {
	syncHandler := syncDelivery.NewSyncHandler(syncUc)

	api := r.Group("/api")
	{
		// Service liveness (no dependency checks)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Synchronization routes
		sync := api.Group("/sync")
		{
			sync.POST("", syncHandler.Synchronize)
			sync.GET("/health", syncHandler.Health)
			sync.GET("/history", syncHandler.History)
			sync.GET("/history/:id", syncHandler.HistoryByID)
			sync.DELETE("/history/:id", syncHandler.DeleteHistory)
		}

		// Semantic search over the knowledge base
		api.POST("/search", syncHandler.Search)

		// Collection management
		api.GET("/collection", syncHandler.Collection)
		api.DELETE("/collection", syncHandler.DeleteCollection)

		// Settings routes - runtime embedding configuration
		settings := api.Group("/settings")
		{
			settings.GET("/ollama", GetOllamaSettings)
			settings.PUT("/ollama", UpdateOllamaSettings)
			settings.POST("/ollama/test", TestOllamaConnection)
		}
	}
}
