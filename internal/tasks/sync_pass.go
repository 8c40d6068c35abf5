package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// PassRunner runs one full reconciliation pass over all record families.
type PassRunner interface {
	RunPass(ctx context.Context) error
}

// SyncPassTask asks for one reconciliation pass. Trigger records what
// queued it (app start, API call, recurring schedule) for the logs.
type SyncPassTask struct {
	Trigger string `json:"trigger"`
}

// Config returns the queue configuration for sync passes. A returned
// error re-queues the pass under the Backoff below, which is the platform
// retry policy for a pass that blew up as a whole (per-record failures
// are bookkept inside the pass and never bubble up here).
func (t SyncPassTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sync_pass",
		MaxAttempts: 3,
		Backoff:     1 * time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SyncPassProcessor creates a processor function for SyncPassTask.
func SyncPassProcessor(runner PassRunner) backlite.QueueProcessor[SyncPassTask] {
	return func(ctx context.Context, task SyncPassTask) error {
		if runner == nil {
			return fmt.Errorf("sync pass runner not configured")
		}

		start := time.Now()
		if err := runner.RunPass(ctx); err != nil {
			return fmt.Errorf("sync pass (%s): %w", task.Trigger, err)
		}

		log.Printf("[TASK] Sync pass (%s) completed in %v", task.Trigger, time.Since(start).Round(time.Millisecond))
		return nil
	}
}

// NewSyncPassQueue creates a backlite queue for sync passes.
func NewSyncPassQueue(runner PassRunner) backlite.Queue {
	return backlite.NewQueue(SyncPassProcessor(runner))
}
