package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/adjustments"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/catalog"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/placements"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/repository"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/settingsstore"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/warehouse"
)

type stubNetwork struct {
	online bool
}

func (s *stubNetwork) IsAvailable() bool {
	return s.online
}

type testEngine struct {
	scheduler    *SyncScheduler
	network      *stubNetwork
	placementDB  *placements.Repository
	adjustmentDB *adjustments.Repository
	catalogDB    *catalog.Repository
	settings     *settingsstore.SettingsStore
}

func setupScheduler(t *testing.T, handler http.Handler) *testEngine {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test_scheduler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := warehouse.NewClient(server.URL, time.Second)
	network := &stubNetwork{online: true}
	settings := settingsstore.New(db)

	placementDB := placements.NewRepository(db.DB, 3)
	adjustmentDB := adjustments.NewRepository(db.DB, 3)
	catalogDB := catalog.NewRepository(db.DB)

	s := NewSyncScheduler(
		repository.NewPlacementRepository(placementDB, client, network, 300*time.Second),
		repository.NewAdjustmentRepository(adjustmentDB, client, network, 300*time.Second),
		repository.NewCatalogRepository(catalogDB, client, network),
		settings,
		network,
		"0 */6 * * *",
	)

	return &testEngine{
		scheduler:    s,
		network:      network,
		placementDB:  placementDB,
		adjustmentDB: adjustmentDB,
		catalogDB:    catalogDB,
		settings:     settings,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/catalog" {
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"value": []map[string]any{
					{"productId": "p1", "article": "A1", "name": "Widget", "quantity": 4, "condition": "good", "warehouseId": "1"},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
}

func TestRunPass_Offline(t *testing.T) {
	engine := setupScheduler(t, okHandler())
	engine.network.online = false

	err := engine.scheduler.RunPass(context.Background())
	assert.ErrorIs(t, err, ErrOffline)

	// Nothing ran: all states are still idle.
	placementState, adjustmentState, catalogState := engine.scheduler.Status()
	assert.Equal(t, entities.SyncPhaseIdle, placementState.Phase)
	assert.Equal(t, entities.SyncPhaseIdle, adjustmentState.Phase)
	assert.Equal(t, entities.SyncPhaseIdle, catalogState.Phase)
}

func TestRunPass_DrainsQueuesAndRefreshesCatalog(t *testing.T) {
	engine := setupScheduler(t, okHandler())

	require.NoError(t, engine.placementDB.Enqueue(&entities.PendingPlacement{
		ID: "p1", Article: "A1", Quantity: 1, Condition: entities.ConditionGood, IdempotencyKey: "k1",
	}))
	require.NoError(t, engine.adjustmentDB.Enqueue(&entities.PendingAdjustment{
		ID: "a1", ProductID: "prod-1", LocationID: "loc-1",
		ExpectedQuantity: 5, ActualQuantity: 4, Condition: entities.ConditionGood, IdempotencyKey: "k2",
	}))

	require.NoError(t, engine.scheduler.RunPass(context.Background()))

	placement, err := engine.placementDB.GetByID("p1")
	require.NoError(t, err)
	assert.True(t, placement.Synced)

	adjustment, err := engine.adjustmentDB.GetByID("a1")
	require.NoError(t, err)
	assert.True(t, adjustment.Synced)

	count, err := engine.catalogDB.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	placementState, adjustmentState, catalogState := engine.scheduler.Status()
	assert.Equal(t, entities.SyncPhaseSuccess, placementState.Phase)
	assert.Equal(t, 1, placementState.Succeeded)
	assert.Equal(t, entities.SyncPhaseSuccess, adjustmentState.Phase)
	assert.Equal(t, entities.SyncPhaseSuccess, catalogState.Phase)
	assert.Equal(t, 1, catalogState.ItemCount)

	assert.Equal(t, "success", engine.settings.GetCatalogSyncStatus())
	assert.NotNil(t, engine.settings.GetSyncLastRunAt())
}

func TestRunPass_CatalogRemoteFailureDoesNotFailPass(t *testing.T) {
	engine := setupScheduler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/catalog" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))

	require.NoError(t, engine.catalogDB.ReplaceAll([]entities.CatalogItem{
		{ProductID: "p1", Article: "A1", Name: "Widget", Condition: entities.ConditionGood, WarehouseID: "1"},
	}))

	err := engine.scheduler.RunPass(context.Background())
	require.NoError(t, err, "a remote-side refresh failure waits for the next pass")

	_, _, catalogState := engine.scheduler.Status()
	assert.Equal(t, entities.SyncPhaseError, catalogState.Phase)
	assert.Equal(t, "failed", engine.settings.GetCatalogSyncStatus())

	// The old cache survived.
	count, err := engine.catalogDB.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRunPass_RecordFailureIsNotAPassFault(t *testing.T) {
	engine := setupScheduler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/placements" {
			json.NewEncoder(w).Encode(map[string]any{
				"success": false, "errorCode": "cell_occupied", "errorMessage": "occupied",
			})
			return
		}
		if r.URL.Path == "/api/catalog" {
			json.NewEncoder(w).Encode(map[string]any{"success": true, "value": []any{}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))

	require.NoError(t, engine.placementDB.Enqueue(&entities.PendingPlacement{
		ID: "p1", Article: "A1", Quantity: 1, Condition: entities.ConditionGood, IdempotencyKey: "k1",
	}))

	require.NoError(t, engine.scheduler.RunPass(context.Background()))

	placementState, _, _ := engine.scheduler.Status()
	assert.Equal(t, entities.SyncPhaseSuccess, placementState.Phase)
	assert.Equal(t, 1, placementState.Failed)

	stored, err := engine.placementDB.GetByID("p1")
	require.NoError(t, err)
	assert.False(t, stored.Synced)
	assert.Equal(t, 1, stored.SyncAttempts)
}

func TestStartStop(t *testing.T) {
	engine := setupScheduler(t, okHandler())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, engine.scheduler.Start(ctx))
	assert.True(t, engine.scheduler.IsRunning())
	require.NotNil(t, engine.scheduler.NextRunTime())

	// Start is idempotent.
	require.NoError(t, engine.scheduler.Start(ctx))

	engine.scheduler.Stop()
	assert.False(t, engine.scheduler.IsRunning())
	assert.Nil(t, engine.scheduler.NextRunTime())
}
