// Package placements provides database operations for the placement
// mutation queue and the append-only placement history.
package placements

import (
	"time"

	"gorm.io/gorm"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
)

// Repository handles all placement queue database operations.
type Repository struct {
	db          *gorm.DB
	maxAttempts int
}

// NewRepository creates a new placement repository.
func NewRepository(db *gorm.DB, maxAttempts int) *Repository {
	return &Repository{db: db, maxAttempts: maxAttempts}
}

// Enqueue durably inserts a placement with Synced=false and zero attempts.
// It never depends on connectivity; only a local-storage fault can fail it.
func (r *Repository) Enqueue(p *entities.PendingPlacement) error {
	p.Synced = false
	p.SyncAttempts = 0
	p.LastSyncAttempt = nil
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return r.db.Create(p).Error
}

// GetByID returns a single pending placement.
func (r *Repository) GetByID(id string) (*entities.PendingPlacement, error) {
	var p entities.PendingPlacement
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkSynced flips the record to synced. Idempotent: the update targets
// only unsynced rows, so a second call is a no-op.
func (r *Repository) MarkSynced(id string) error {
	return r.db.Model(&entities.PendingPlacement{}).
		Where("id = ? AND synced = ?", id, false).
		Update("synced", true).Error
}

// RecordAttemptFailure consumes one retry credit: increments the attempt
// counter and stores the failure timestamp and message. Synced is untouched.
func (r *Repository) RecordAttemptFailure(id string, at time.Time, errorMessage string) error {
	return r.db.Model(&entities.PendingPlacement{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"sync_attempts":     gorm.Expr("sync_attempts + 1"),
			"last_sync_attempt": at,
			"error_message":     errorMessage,
		}).Error
}

// SelectForSync returns every record eligible for a new attempt, oldest
// first so old entries cannot starve. Eligible means unsynced, below the
// attempt budget, and either never attempted or attempted longer than
// retryInterval ago.
func (r *Repository) SelectForSync(now time.Time, retryInterval time.Duration) ([]entities.PendingPlacement, error) {
	var records []entities.PendingPlacement
	cutoff := now.Add(-retryInterval)
	err := r.db.
		Where("synced = ? AND sync_attempts < ?", false, r.maxAttempts).
		Where("last_sync_attempt IS NULL OR last_sync_attempt < ?", cutoff).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// ListPending returns every unsynced record regardless of eligibility.
func (r *Repository) ListPending() ([]entities.PendingPlacement, error) {
	var records []entities.PendingPlacement
	err := r.db.Where("synced = ?", false).Order("created_at ASC").Find(&records).Error
	return records, err
}

// ListDeadLetters returns unsynced records that exhausted their retry
// credits. They are excluded from SelectForSync and need manual review.
func (r *Repository) ListDeadLetters() ([]entities.PendingPlacement, error) {
	var records []entities.PendingPlacement
	err := r.db.
		Where("synced = ? AND sync_attempts >= ?", false, r.maxAttempts).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// PurgeSynced hard-deletes synced records. It only ever targets rows
// already marked synced, so it is safe to run concurrently with enqueues.
func (r *Repository) PurgeSynced() (int64, error) {
	result := r.db.Where("synced = ?", true).Delete(&entities.PendingPlacement{})
	return result.RowsAffected, result.Error
}

// CountPending returns the number of unsynced records.
func (r *Repository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&entities.PendingPlacement{}).Where("synced = ?", false).Count(&count).Error
	return count, err
}

// CreateConfirmed appends a row to the placement history.
func (r *Repository) CreateConfirmed(c *entities.ConfirmedPlacement) error {
	return r.db.Create(c).Error
}

// MarkConfirmedSynced flips the history rows for a placement to synced.
func (r *Repository) MarkConfirmedSynced(placementID string) error {
	return r.db.Model(&entities.ConfirmedPlacement{}).
		Where("placement_id = ? AND synced = ?", placementID, false).
		Update("synced", true).Error
}

// ListConfirmed returns the placement history, newest first.
func (r *Repository) ListConfirmed(limit int) ([]entities.ConfirmedPlacement, error) {
	var records []entities.ConfirmedPlacement
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

// PurgeConfirmedBefore deletes synced history rows older than the cutoff.
func (r *Repository) PurgeConfirmedBefore(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("synced = ? AND created_at < ?", true, cutoff).
		Delete(&entities.ConfirmedPlacement{})
	return result.RowsAffected, result.Error
}
