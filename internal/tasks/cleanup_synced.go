package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/adjustments"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/placements"
)

// CleanupSyncedTask purges records the service has acknowledged: synced
// queue rows and synced history rows past retention. Unsynced rows are
// never touched here, whatever their attempt count.
type CleanupSyncedTask struct {
	RetentionHours int `json:"retention_hours"`
}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupSyncedTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_synced",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupSyncedProcessor creates a processor function for CleanupSyncedTask.
func CleanupSyncedProcessor(placementStore *placements.Repository, adjustmentStore *adjustments.Repository) backlite.QueueProcessor[CleanupSyncedTask] {
	return func(ctx context.Context, task CleanupSyncedTask) error {
		if placementStore == nil || adjustmentStore == nil {
			return fmt.Errorf("cleanup stores not configured")
		}

		retentionHours := task.RetentionHours
		if retentionHours <= 0 {
			retentionHours = 168
		}
		cutoff := time.Now().Add(-time.Duration(retentionHours) * time.Hour)

		placementsPurged, err := placementStore.PurgeSynced()
		if err != nil {
			return fmt.Errorf("purge synced placements: %w", err)
		}
		adjustmentsPurged, err := adjustmentStore.PurgeSynced()
		if err != nil {
			return fmt.Errorf("purge synced adjustments: %w", err)
		}
		historyPurged, err := placementStore.PurgeConfirmedBefore(cutoff)
		if err != nil {
			return fmt.Errorf("purge placement history: %w", err)
		}

		log.Printf("[TASK] Cleanup removed %d synced placements, %d synced adjustments, %d history rows past %dh",
			placementsPurged, adjustmentsPurged, historyPurged, retentionHours)

		// Surface stuck records instead of silently abandoning them.
		deadPlacements, err := placementStore.ListDeadLetters()
		if err != nil {
			return fmt.Errorf("list placement dead letters: %w", err)
		}
		deadAdjustments, err := adjustmentStore.ListDeadLetters()
		if err != nil {
			return fmt.Errorf("list adjustment dead letters: %w", err)
		}
		if len(deadPlacements) > 0 || len(deadAdjustments) > 0 {
			log.Printf("[TASK] WARNING: %d placements and %d adjustments exhausted their retry budget and need manual review",
				len(deadPlacements), len(deadAdjustments))
		}

		return nil
	}
}

// NewCleanupSyncedQueue creates a backlite queue for cleanup tasks.
func NewCleanupSyncedQueue(placementStore *placements.Repository, adjustmentStore *adjustments.Repository) backlite.Queue {
	return backlite.NewQueue(CleanupSyncedProcessor(placementStore, adjustmentStore))
}
