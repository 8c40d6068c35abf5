package repository

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/adjustments"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/warehouse"
)

// AdjustmentRepository owns the inventory-adjustment queue's round-trip to
// the warehouse service.
type AdjustmentRepository struct {
	store         *adjustments.Repository
	client        *warehouse.Client
	network       NetworkChecker
	retryInterval time.Duration
}

// NewAdjustmentRepository creates an adjustment repository.
func NewAdjustmentRepository(store *adjustments.Repository, client *warehouse.Client, network NetworkChecker, retryInterval time.Duration) *AdjustmentRepository {
	return &AdjustmentRepository{
		store:         store,
		client:        client,
		network:       network,
		retryInterval: retryInterval,
	}
}

// CreateAdjustment durably captures a count correction and
// opportunistically submits it if the network is available right now.
func (r *AdjustmentRepository) CreateAdjustment(ctx context.Context, a *entities.PendingAdjustment) (bool, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.IdempotencyKey == "" {
		a.IdempotencyKey = uuid.NewString()
	}

	if err := r.store.Enqueue(a); err != nil {
		return false, err
	}

	if !r.network.IsAvailable() {
		return false, nil
	}

	if err := r.submitOne(ctx, a); err != nil {
		log.Printf("Adjustment %s: immediate submit failed, queued for retry: %v", a.ID, err)
		if ferr := r.store.RecordAttemptFailure(a.ID, time.Now(), err.Error()); ferr != nil {
			return false, ferr
		}
		return false, nil
	}
	if err := r.store.MarkSynced(a.ID); err != nil {
		return true, err
	}
	return true, nil
}

// SyncPending reconciles the adjustment queue with the service. Same
// contract as the placement queue: offline no-op, per-record fault
// isolation, only store faults propagate.
func (r *AdjustmentRepository) SyncPending(ctx context.Context) (SyncSummary, error) {
	var summary SyncSummary

	if !r.network.IsAvailable() {
		return summary, nil
	}

	records, err := r.store.SelectForSync(time.Now(), r.retryInterval)
	if err != nil {
		return summary, err
	}

	for i := range records {
		a := &records[i]
		summary.Attempted++

		if err := r.submitOne(ctx, a); err != nil {
			summary.Failed++
			log.Printf("Adjustment %s: sync attempt %d failed: %v", a.ID, a.SyncAttempts+1, err)
			if ferr := r.store.RecordAttemptFailure(a.ID, time.Now(), err.Error()); ferr != nil {
				return summary, ferr
			}
			continue
		}

		if err := r.store.MarkSynced(a.ID); err != nil {
			return summary, err
		}
		summary.Succeeded++
	}

	return summary, nil
}

// ListPending exposes the unsynced queue to the presentation layer.
func (r *AdjustmentRepository) ListPending() ([]entities.PendingAdjustment, error) {
	return r.store.ListPending()
}

// ListDeadLetters exposes records that exhausted their retry budget.
func (r *AdjustmentRepository) ListDeadLetters() ([]entities.PendingAdjustment, error) {
	return r.store.ListDeadLetters()
}

func (r *AdjustmentRepository) submitOne(ctx context.Context, a *entities.PendingAdjustment) error {
	req := warehouse.AdjustmentRequest{
		AdjustmentID:     a.ID,
		ProductID:        a.ProductID,
		LocationID:       a.LocationID,
		ExpectedQuantity: a.ExpectedQuantity,
		ActualQuantity:   a.ActualQuantity,
		Condition:        string(a.Condition),
		Reason:           a.Reason,
		ExpirationDate:   a.ExpirationDate,
	}
	return r.client.SubmitAdjustment(ctx, req, a.IdempotencyKey)
}
