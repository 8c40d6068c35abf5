package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/warehouse"
)

func testPlacement() *entities.PendingPlacement {
	return &entities.PendingPlacement{
		Article:     "A1",
		Barcode:     "4601234567890",
		UnitTypeID:  "box",
		Quantity:    5,
		CellBarcode: "C1",
		Condition:   entities.ConditionGood,
	}
}

func TestCreatePlacement_Offline(t *testing.T) {
	stores := setupTestStores(t)
	fake := newFakeWarehouse(t)
	network := &stubNetwork{online: false}
	repo := NewPlacementRepository(stores.placements, fake.client(), network, testRetryInterval)

	p := testPlacement()
	sent, err := repo.CreatePlacement(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, sent)

	// Durably captured with minted ids, no network traffic.
	assert.NotEmpty(t, p.ID)
	assert.NotEmpty(t, p.IdempotencyKey)
	assert.Equal(t, 0, fake.requests["/api/placements"])

	stored, err := stores.placements.GetByID(p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Synced)
	assert.Equal(t, 0, stored.SyncAttempts)

	history, err := repo.ListHistory(10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, p.ID, history[0].PlacementID)
	assert.False(t, history[0].Synced)
}

func TestCreatePlacement_OnlineWriteThrough(t *testing.T) {
	stores := setupTestStores(t)
	fake := newFakeWarehouse(t)

	var gotKey string
	fake.handle("/api/placements", func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	network := &stubNetwork{online: true}
	repo := NewPlacementRepository(stores.placements, fake.client(), network, testRetryInterval)

	p := testPlacement()
	sent, err := repo.CreatePlacement(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, p.IdempotencyKey, gotKey)

	stored, err := stores.placements.GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Synced)

	history, err := repo.ListHistory(10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Synced)
}

func TestCreatePlacement_ImmediateSendFailureStillSucceeds(t *testing.T) {
	stores := setupTestStores(t)
	fake := newFakeWarehouse(t)
	fake.handle("/api/placements", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	network := &stubNetwork{online: true}
	repo := NewPlacementRepository(stores.placements, fake.client(), network, testRetryInterval)

	p := testPlacement()
	sent, err := repo.CreatePlacement(context.Background(), p)
	require.NoError(t, err, "the local enqueue decides the outcome")
	assert.False(t, sent)

	stored, err := stores.placements.GetByID(p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Synced)
	assert.Equal(t, 1, stored.SyncAttempts)
	assert.NotEmpty(t, stored.ErrorMessage)
	require.NotNil(t, stored.LastSyncAttempt)
}

func TestSyncPending_OfflineIsNoOp(t *testing.T) {
	stores := setupTestStores(t)
	fake := newFakeWarehouse(t)
	network := &stubNetwork{online: false}
	repo := NewPlacementRepository(stores.placements, fake.client(), network, testRetryInterval)

	p := testPlacement()
	_, err := repo.CreatePlacement(context.Background(), p)
	require.NoError(t, err)

	summary, err := repo.SyncPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncSummary{}, summary)
	assert.Equal(t, 0, fake.requests["/api/placements"])
}

func TestSyncPending_OneFailureDoesNotAbortBatch(t *testing.T) {
	stores := setupTestStores(t)
	fake := newFakeWarehouse(t)
	network := &stubNetwork{online: false}
	repo := NewPlacementRepository(stores.placements, fake.client(), network, testRetryInterval)

	// Capture three placements offline.
	var ids []string
	for i := 0; i < 3; i++ {
		p := testPlacement()
		p.CreatedAt = time.Now().Add(time.Duration(i-10) * time.Minute)
		_, err := repo.CreatePlacement(context.Background(), p)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	// The middle record is refused, the rest succeed.
	fake.handle("/api/placements", func(w http.ResponseWriter, r *http.Request) {
		var req warehouse.PlacementRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.PlacementID == ids[1] {
			respondFailure(w, "cell_occupied", "cell C1 already holds another unit")
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	network.online = true
	summary, err := repo.SyncPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncSummary{Attempted: 3, Succeeded: 2, Failed: 1}, summary)

	first, err := stores.placements.GetByID(ids[0])
	require.NoError(t, err)
	assert.True(t, first.Synced)

	failed, err := stores.placements.GetByID(ids[1])
	require.NoError(t, err)
	assert.False(t, failed.Synced)
	assert.Equal(t, 1, failed.SyncAttempts)
	assert.Contains(t, failed.ErrorMessage, "cell_occupied")

	third, err := stores.placements.GetByID(ids[2])
	require.NoError(t, err)
	assert.True(t, third.Synced)
}

func TestSyncPending_FailedRecordIneligibleUntilRetryInterval(t *testing.T) {
	stores := setupTestStores(t)
	fake := newFakeWarehouse(t)
	fake.handle("/api/placements", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	network := &stubNetwork{online: true}
	repo := NewPlacementRepository(stores.placements, fake.client(), network, testRetryInterval)

	p := testPlacement()
	_, err := repo.CreatePlacement(context.Background(), p)
	require.NoError(t, err)

	stored, err := stores.placements.GetByID(p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.SyncAttempts)

	// A pass right away skips the record: the retry interval has not elapsed.
	summary, err := repo.SyncPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncSummary{}, summary)

	// After the interval the record is picked up again.
	eligible, err := stores.placements.SelectForSync(time.Now().Add(301*time.Second), testRetryInterval)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, p.ID, eligible[0].ID)
}

func TestSyncPending_ThenPurge(t *testing.T) {
	stores := setupTestStores(t)
	fake := newFakeWarehouse(t)
	network := &stubNetwork{online: false}
	repo := NewPlacementRepository(stores.placements, fake.client(), network, testRetryInterval)

	p := testPlacement()
	_, err := repo.CreatePlacement(context.Background(), p)
	require.NoError(t, err)

	network.online = true
	summary, err := repo.SyncPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncSummary{Attempted: 1, Succeeded: 1}, summary)

	purged, err := stores.placements.PurgeSynced()
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	pending, err := repo.ListPending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}
