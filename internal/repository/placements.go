// Package repository mediates between the local mutation queues, the
// catalog cache and the remote warehouse service. Reads are local-first;
// writes are captured durably before any network traffic.
package repository

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/placements"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/warehouse"
)

// PlacementRepository owns the placement queue's round-trip to the
// warehouse service.
type PlacementRepository struct {
	store         *placements.Repository
	client        *warehouse.Client
	network       NetworkChecker
	retryInterval time.Duration
}

// NewPlacementRepository creates a placement repository.
func NewPlacementRepository(store *placements.Repository, client *warehouse.Client, network NetworkChecker, retryInterval time.Duration) *PlacementRepository {
	return &PlacementRepository{
		store:         store,
		client:        client,
		network:       network,
		retryInterval: retryInterval,
	}
}

// CreatePlacement durably captures a placement and opportunistically sends
// it if the network is available right now. The local enqueue decides the
// outcome of the user-visible operation: a failed immediate send only
// consumes a retry credit. Returns whether the record reached the service.
func (r *PlacementRepository) CreatePlacement(ctx context.Context, p *entities.PendingPlacement) (bool, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.IdempotencyKey == "" {
		p.IdempotencyKey = uuid.NewString()
	}

	if err := r.store.Enqueue(p); err != nil {
		return false, err
	}

	confirmed := &entities.ConfirmedPlacement{
		PlacementID: p.ID,
		Article:     p.Article,
		UnitTypeID:  p.UnitTypeID,
		Quantity:    p.Quantity,
		CellBarcode: p.CellBarcode,
		Condition:   p.Condition,
	}
	if err := r.store.CreateConfirmed(confirmed); err != nil {
		return false, err
	}

	if !r.network.IsAvailable() {
		return false, nil
	}

	if err := r.sendOne(ctx, p); err != nil {
		log.Printf("Placement %s: immediate send failed, queued for retry: %v", p.ID, err)
		if ferr := r.store.RecordAttemptFailure(p.ID, time.Now(), err.Error()); ferr != nil {
			return false, ferr
		}
		return false, nil
	}
	if err := r.markSynced(p.ID); err != nil {
		return true, err
	}
	return true, nil
}

// SyncPending reconciles the placement queue with the service. Offline is
// a no-op. Each eligible record gets one attempt; one record's failure
// never aborts the batch. Only local-store faults propagate.
func (r *PlacementRepository) SyncPending(ctx context.Context) (SyncSummary, error) {
	var summary SyncSummary

	if !r.network.IsAvailable() {
		return summary, nil
	}

	records, err := r.store.SelectForSync(time.Now(), r.retryInterval)
	if err != nil {
		return summary, err
	}

	for i := range records {
		p := &records[i]
		summary.Attempted++

		if err := r.sendOne(ctx, p); err != nil {
			summary.Failed++
			log.Printf("Placement %s: sync attempt %d failed: %v", p.ID, p.SyncAttempts+1, err)
			if ferr := r.store.RecordAttemptFailure(p.ID, time.Now(), err.Error()); ferr != nil {
				return summary, ferr
			}
			continue
		}

		if err := r.markSynced(p.ID); err != nil {
			return summary, err
		}
		summary.Succeeded++
	}

	return summary, nil
}

// ListPending exposes the unsynced queue to the presentation layer.
func (r *PlacementRepository) ListPending() ([]entities.PendingPlacement, error) {
	return r.store.ListPending()
}

// ListDeadLetters exposes records that exhausted their retry budget.
func (r *PlacementRepository) ListDeadLetters() ([]entities.PendingPlacement, error) {
	return r.store.ListDeadLetters()
}

// ListHistory exposes the append-only placement history.
func (r *PlacementRepository) ListHistory(limit int) ([]entities.ConfirmedPlacement, error) {
	return r.store.ListConfirmed(limit)
}

func (r *PlacementRepository) sendOne(ctx context.Context, p *entities.PendingPlacement) error {
	req := warehouse.PlacementRequest{
		PlacementID:    p.ID,
		Article:        p.Article,
		Barcode:        p.Barcode,
		UnitTypeID:     p.UnitTypeID,
		Quantity:       p.Quantity,
		CellBarcode:    p.CellBarcode,
		Condition:      string(p.Condition),
		Reason:         p.Reason,
		ExpirationDate: p.ExpirationDate,
	}
	return r.client.CreatePlacement(ctx, req, p.IdempotencyKey)
}

func (r *PlacementRepository) markSynced(id string) error {
	if err := r.store.MarkSynced(id); err != nil {
		return err
	}
	return r.store.MarkConfirmedSynced(id)
}
