// Package http exposes the engine's repository interface to the
// presentation layer. Handlers are thin: durable capture and
// reconciliation live in the repositories, not here.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/netmon"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/repository"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/scheduler"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/settingsstore"
)

// RouterConfig carries all handler dependencies.
type RouterConfig struct {
	DB            *database.Database
	Placements    *repository.PlacementRepository
	Adjustments   *repository.AdjustmentRepository
	Catalog       *repository.CatalogRepository
	Scheduler     *scheduler.SyncScheduler
	SettingsStore *settingsstore.SettingsStore
	Network       *netmon.Monitor
	Version       string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.DB, cfg.Network, cfg.Version)
	placementController := NewPlacementController(cfg.Placements)
	adjustmentController := NewAdjustmentController(cfg.Adjustments)
	searchController := NewSearchController(cfg.Catalog, cfg.SettingsStore)
	syncController := NewSyncController(cfg.Scheduler, cfg.Network)
	settingsController := NewSettingsController(cfg.SettingsStore)

	router.GET("/health", healthController.Status)

	api := router.Group("/api")
	{
		api.POST("/placements", placementController.Create)
		api.GET("/placements/pending", placementController.ListPending)
		api.GET("/placements/dead-letter", placementController.ListDeadLetters)
		api.GET("/placements/history", placementController.ListHistory)

		api.POST("/adjustments", adjustmentController.Create)
		api.GET("/adjustments/pending", adjustmentController.ListPending)
		api.GET("/adjustments/dead-letter", adjustmentController.ListDeadLetters)

		api.GET("/search", searchController.Search)

		api.POST("/sync", syncController.Trigger)
		api.GET("/sync/status", syncController.Status)
		api.GET("/network", syncController.Network)

		api.GET("/settings/:key", settingsController.Get)
		api.PUT("/settings/:key", settingsController.Set)
	}

	return router
}
