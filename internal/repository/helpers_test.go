package repository

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/adjustments"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/catalog"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/placements"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/warehouse"
)

const testRetryInterval = 300 * time.Second

// stubNetwork is a NetworkChecker with a switchable answer.
type stubNetwork struct {
	online bool
}

func (s *stubNetwork) IsAvailable() bool {
	return s.online
}

type testStores struct {
	placements  *placements.Repository
	adjustments *adjustments.Repository
	catalog     *catalog.Repository
}

func setupTestStores(t *testing.T) *testStores {
	dbPath := filepath.Join(t.TempDir(), "test_repository.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.PendingPlacement{},
		&entities.ConfirmedPlacement{},
		&entities.PendingAdjustment{},
		&entities.CatalogItem{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return &testStores{
		placements:  placements.NewRepository(db, 3),
		adjustments: adjustments.NewRepository(db, 3),
		catalog:     catalog.NewRepository(db),
	}
}

// fakeWarehouse is an httptest stand-in for the warehouse service. Handlers
// are keyed by path; unregistered paths answer success with no value.
type fakeWarehouse struct {
	server   *httptest.Server
	handlers map[string]http.HandlerFunc
	requests map[string]int
}

func newFakeWarehouse(t *testing.T) *fakeWarehouse {
	f := &fakeWarehouse{
		handlers: make(map[string]http.HandlerFunc),
		requests: make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests[r.URL.Path]++
		if h, ok := f.handlers[r.URL.Path]; ok {
			h(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeWarehouse) handle(path string, h http.HandlerFunc) {
	f.handlers[path] = h
}

func (f *fakeWarehouse) client() *warehouse.Client {
	return warehouse.NewClient(f.server.URL, time.Second)
}

func respondItems(w http.ResponseWriter, items []warehouse.ItemData) {
	json.NewEncoder(w).Encode(map[string]any{"success": true, "value": items})
}

func respondFailure(w http.ResponseWriter, code, message string) {
	json.NewEncoder(w).Encode(map[string]any{
		"success":      false,
		"errorCode":    code,
		"errorMessage": message,
	})
}
