package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/config"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/adjustments"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/catalog"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/placements"
	http_controllers "github.com/Aristvodolaz/storage-mobile-sub000/internal/http"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/netmon"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/repository"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/scheduler"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/settingsstore"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/tasks"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/warehouse"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Engine bundles the wired sync engine for reuse by the CLI commands.
type Engine struct {
	DB            *database.Database
	Placements    *repository.PlacementRepository
	Adjustments   *repository.AdjustmentRepository
	Catalog       *repository.CatalogRepository
	Scheduler     *scheduler.SyncScheduler
	SettingsStore *settingsstore.SettingsStore
	Network       *netmon.Monitor
	PlacementDB   *placements.Repository
	AdjustmentDB  *adjustments.Repository
}

// BuildEngine wires the store, monitor, client and repositories.
func BuildEngine(cfg *config.Config) (*Engine, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	monitor, err := netmon.NewFromURL(cfg.Warehouse.BaseURL, cfg.Network.PollInterval, cfg.Network.ProbeTimeout)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize network monitor: %w", err)
	}

	client := warehouse.NewClient(cfg.Warehouse.BaseURL, cfg.Warehouse.Timeout)
	settingsStore := settingsstore.New(db)

	placementStore := placements.NewRepository(db.DB, cfg.Sync.MaxAttempts)
	adjustmentStore := adjustments.NewRepository(db.DB, cfg.Sync.MaxAttempts)
	catalogStore := catalog.NewRepository(db.DB)

	placementRepo := repository.NewPlacementRepository(placementStore, client, monitor, cfg.Sync.RetryInterval)
	adjustmentRepo := repository.NewAdjustmentRepository(adjustmentStore, client, monitor, cfg.Sync.RetryInterval)
	catalogRepo := repository.NewCatalogRepository(catalogStore, client, monitor)

	syncScheduler := scheduler.NewSyncScheduler(
		placementRepo, adjustmentRepo, catalogRepo, settingsStore, monitor, cfg.Sync.Schedule)

	return &Engine{
		DB:            db,
		Placements:    placementRepo,
		Adjustments:   adjustmentRepo,
		Catalog:       catalogRepo,
		Scheduler:     syncScheduler,
		SettingsStore: settingsStore,
		Network:       monitor,
		PlacementDB:   placementStore,
		AdjustmentDB:  adjustmentStore,
	}, nil
}

// Run starts the full service: engine, task queue, scheduler, HTTP server.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting storage-mobile sync engine v%s", version)

	engine, err := BuildEngine(cfg)
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}
	defer engine.DB.Close()

	// Task queue: the durable scheduler behind sync and cleanup passes.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}
		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Failed to close task queue: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewSyncPassQueue(engine.Scheduler),
			tasks.NewCleanupSyncedQueue(engine.PlacementDB, engine.AdjustmentDB),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		defer taskCtxCancel()
		go taskClient.Start(taskCtx)

		// App-start pass: one immediate reconciliation attempt.
		if _, err := taskClient.Add(tasks.SyncPassTask{Trigger: "app_start"}).Save(); err != nil {
			log.Printf("Failed to queue app-start sync pass: %v", err)
		}
		if _, err := taskClient.Add(tasks.CleanupSyncedTask{RetentionHours: int(cfg.Sync.Retention.Hours())}).Save(); err != nil {
			log.Printf("Failed to queue cleanup pass: %v", err)
		}
	}

	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := engine.Scheduler.Start(schedulerCtx); err != nil {
		log.Fatalf("Failed to start sync scheduler: %v", err)
	}

	// Log connectivity transitions for the duration of the process.
	observeDone := make(chan struct{})
	defer close(observeDone)
	go func() {
		var last *bool
		for online := range engine.Network.Observe(observeDone) {
			if last == nil || *last != online {
				if online {
					log.Printf("Network: online")
				} else {
					log.Printf("Network: offline")
				}
			}
			v := online
			last = &v
		}
	}()

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		DB:            engine.DB,
		Placements:    engine.Placements,
		Adjustments:   engine.Adjustments,
		Catalog:       engine.Catalog,
		Scheduler:     engine.Scheduler,
		SettingsStore: engine.SettingsStore,
		Network:       engine.Network,
		Version:       version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		engine.Scheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	})
}

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}
