// Package scheduler drives reconciliation passes: an immediate pass at app
// start, on-demand passes, and a long-period recurring pass.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/repository"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/settingsstore"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/warehouse"
)

// ErrOffline signals "retry later": the pass did not run because the
// network precondition does not hold right now.
var ErrOffline = errors.New("network unavailable, sync pass deferred")

// SyncScheduler runs reconciliation passes over the three record families.
// A pass runs each family sequentially and fault-isolated: one family's
// failure is logged and never blocks the others.
type SyncScheduler struct {
	placements  *repository.PlacementRepository
	adjustments *repository.AdjustmentRepository
	catalog     *repository.CatalogRepository
	settings    *settingsstore.SettingsStore
	network     repository.NetworkChecker
	schedule    string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	isSyncing bool

	placementState  entities.PlacementSyncState
	adjustmentState entities.AdjustmentSyncState
	catalogState    entities.CatalogRefreshState
}

// NewSyncScheduler creates a scheduler instance.
func NewSyncScheduler(
	placements *repository.PlacementRepository,
	adjustments *repository.AdjustmentRepository,
	catalog *repository.CatalogRepository,
	settings *settingsstore.SettingsStore,
	network repository.NetworkChecker,
	schedule string,
) *SyncScheduler {
	return &SyncScheduler{
		placements:      placements,
		adjustments:     adjustments,
		catalog:         catalog,
		settings:        settings,
		network:         network,
		schedule:        schedule,
		cron:            cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
		placementState:  entities.PlacementSyncState{Phase: entities.SyncPhaseIdle},
		adjustmentState: entities.AdjustmentSyncState{Phase: entities.SyncPhaseIdle},
		catalogState:    entities.CatalogRefreshState{Phase: entities.SyncPhaseIdle},
	}
}

// Start registers the recurring pass. Keep-if-registered semantics: the
// cron entry is added exactly once per process, so repeated Start calls
// cannot compound interval drift.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runPass(context.Background(), "scheduled")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync pass '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Sync scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running pass.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	log.Printf("Sync scheduler: stopped")
}

// RunNow triggers an immediate pass in the background. Replace semantics:
// if a pass is already in flight the trigger is dropped, not queued behind
// it, so duplicate triggers never stack redundant passes.
func (s *SyncScheduler) RunNow(trigger string) {
	go s.runPass(context.Background(), trigger)
}

// RunPass runs one reconciliation pass synchronously. Implements
// tasks.PassRunner. Returns ErrOffline when the network precondition does
// not hold (the platform scheduler re-invokes later), or the joined
// local-store faults of the family routines.
func (s *SyncScheduler) RunPass(ctx context.Context) error {
	return s.runPass(ctx, "task")
}

// IsRunning returns whether the recurring schedule is registered.
func (s *SyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing returns whether a pass is currently in flight.
func (s *SyncScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// NextRunTime returns when the next recurring pass fires, nil if the
// schedule is not registered.
func (s *SyncScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// Status returns the per-operation sync states.
func (s *SyncScheduler) Status() (entities.PlacementSyncState, entities.AdjustmentSyncState, entities.CatalogRefreshState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.placementState, s.adjustmentState, s.catalogState
}

func (s *SyncScheduler) runPass(ctx context.Context, trigger string) error {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("Sync pass (%s): skipped (already syncing)", trigger)
		return nil
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	// The platform defers passes until connectivity holds, but it can
	// drop between scheduling and execution. Re-check before any work.
	if !s.network.IsAvailable() {
		log.Printf("Sync pass (%s): network unavailable, deferred", trigger)
		return ErrOffline
	}

	log.Printf("Sync pass (%s): starting", trigger)
	start := time.Now()

	var faults []error

	if err := s.syncAdjustments(ctx); err != nil {
		log.Printf("Sync pass (%s): adjustment queue failed: %v", trigger, err)
		faults = append(faults, err)
	}
	if err := s.syncPlacements(ctx); err != nil {
		log.Printf("Sync pass (%s): placement queue failed: %v", trigger, err)
		faults = append(faults, err)
	}
	if err := s.syncCatalog(ctx); err != nil {
		log.Printf("Sync pass (%s): catalog refresh failed: %v", trigger, err)
		faults = append(faults, err)
	}

	message := fmt.Sprintf("pass (%s) finished in %v, %d faults",
		trigger, time.Since(start).Round(time.Millisecond), len(faults))
	if err := s.settings.SetSyncLastRun(time.Now(), message); err != nil {
		faults = append(faults, err)
	}
	log.Printf("Sync pass: %s", message)

	return errors.Join(faults...)
}

func (s *SyncScheduler) syncPlacements(ctx context.Context) error {
	s.setPlacementState(entities.PlacementSyncState{Phase: entities.SyncPhaseRunning})

	summary, err := s.placements.SyncPending(ctx)
	now := time.Now()
	if err != nil {
		s.setPlacementState(entities.PlacementSyncState{
			Phase:       entities.SyncPhaseError,
			Attempted:   summary.Attempted,
			Succeeded:   summary.Succeeded,
			Failed:      summary.Failed,
			Error:       err.Error(),
			CompletedAt: &now,
		})
		return err
	}

	s.setPlacementState(entities.PlacementSyncState{
		Phase:       entities.SyncPhaseSuccess,
		Attempted:   summary.Attempted,
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		CompletedAt: &now,
	})
	return nil
}

func (s *SyncScheduler) syncAdjustments(ctx context.Context) error {
	s.setAdjustmentState(entities.AdjustmentSyncState{Phase: entities.SyncPhaseRunning})

	summary, err := s.adjustments.SyncPending(ctx)
	now := time.Now()
	if err != nil {
		s.setAdjustmentState(entities.AdjustmentSyncState{
			Phase:       entities.SyncPhaseError,
			Attempted:   summary.Attempted,
			Succeeded:   summary.Succeeded,
			Failed:      summary.Failed,
			Error:       err.Error(),
			CompletedAt: &now,
		})
		return err
	}

	s.setAdjustmentState(entities.AdjustmentSyncState{
		Phase:       entities.SyncPhaseSuccess,
		Attempted:   summary.Attempted,
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		CompletedAt: &now,
	})
	return nil
}

func (s *SyncScheduler) syncCatalog(ctx context.Context) error {
	s.setCatalogState(entities.CatalogRefreshState{Phase: entities.SyncPhaseRunning})

	warehouseID := s.settings.GetCurrentWarehouseID()
	count, err := s.catalog.SyncCatalog(ctx, warehouseID)
	now := time.Now()
	if err != nil {
		s.setCatalogState(entities.CatalogRefreshState{
			Phase:       entities.SyncPhaseError,
			Error:       err.Error(),
			RefreshedAt: &now,
		})
		_ = s.settings.SetCatalogSyncStatus("failed", now)
		if warehouse.IsRemoteFailure(err) {
			// The old cache survived the failed fetch; nothing to retry
			// beyond the next scheduled pass.
			return nil
		}
		return err
	}

	s.setCatalogState(entities.CatalogRefreshState{
		Phase:       entities.SyncPhaseSuccess,
		ItemCount:   count,
		RefreshedAt: &now,
	})
	return s.settings.SetCatalogSyncStatus("success", now)
}

func (s *SyncScheduler) setPlacementState(state entities.PlacementSyncState) {
	s.mu.Lock()
	s.placementState = state
	s.mu.Unlock()
}

func (s *SyncScheduler) setAdjustmentState(state entities.AdjustmentSyncState) {
	s.mu.Lock()
	s.adjustmentState = state
	s.mu.Unlock()
}

func (s *SyncScheduler) setCatalogState(state entities.CatalogRefreshState) {
	s.mu.Lock()
	s.catalogState = state
	s.mu.Unlock()
}
