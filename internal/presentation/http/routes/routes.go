// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/HarborCommerce/harbor-go/internal/application/container"
	"github.com/HarborCommerce/harbor-go/internal/presentation/http/handlers"
	"github.com/HarborCommerce/harbor-go/internal/presentation/http/middleware"
	"github.com/HarborCommerce/harbor-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Processed product images are served straight off disk.
	r.Static("/media", config.MediaDirectory)

	// Initialize handlers
	eventHandlers := handlers.NewEventHandlers(container.EventProcessingService, container.Logger)
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.JourneyAnalyticsService, container.Logger)
	demandHandlers := handlers.NewDemandHandlers(container.DemandService, container.DigestService, container.Logger)
	inventoryHandlers := handlers.NewInventoryHandlers(container.InventoryService, container.Logger)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	mediaHandlers := handlers.NewMediaHandlers(container.MediaService, container.Logger)
	adminHandlers := handlers.NewAdminHandlers(container.Logger)

	api := r.Group("/api/v1")
	{
		// Authentication
		api.POST("/auth/login", authHandlers.PostLogin)

		// Event ingestion (public, called by the storefront)
		api.POST("/events", eventHandlers.PostEvent)
		api.POST("/events/batch", eventHandlers.PostEventBatch)

		// Stock lookup used by search result enrichment
		api.GET("/inventory/stock", inventoryHandlers.GetStock)

		// Analytics endpoints (admin only)
		analytics := api.Group("/analytics")
		analytics.Use(middleware.AdminAuthMiddleware(container.AuthService))
		{
			analytics.GET("/journey", analyticsHandlers.GetJourneyReport)
			analytics.GET("/funnel", analyticsHandlers.GetFunnelReport)
			analytics.GET("/flow", analyticsHandlers.GetFlowReport)
			analytics.GET("/quality", analyticsHandlers.GetQualityReport)
			analytics.GET("/intent", analyticsHandlers.GetQueryIntent)
			analytics.GET("/demand", demandHandlers.GetDemandSignals)
			analytics.POST("/demand/digest", demandHandlers.PostDemandDigest)
		}

		// Operational controls (admin only)
		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(container.AuthService))
		{
			admin.GET("/logs/levels", adminHandlers.GetLogLevels)
			admin.POST("/logs/levels", adminHandlers.SetLogLevel)
		}

		// Catalog management (admin only)
		catalog := api.Group("/inventory/products")
		catalog.Use(middleware.AdminAuthMiddleware(container.AuthService))
		{
			catalog.GET("/:id", inventoryHandlers.GetProduct)
			catalog.PUT("/:id", inventoryHandlers.PutProduct)
			catalog.POST("/:id/image", mediaHandlers.PostProductImage)
			catalog.DELETE("/:id/image", mediaHandlers.DeleteProductImage)
		}
	}

	return r
}
