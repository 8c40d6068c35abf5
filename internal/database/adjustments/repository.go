// Package adjustments provides database operations for the inventory
// adjustment mutation queue.
package adjustments

import (
	"time"

	"gorm.io/gorm"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
)

// Repository handles all adjustment queue database operations.
type Repository struct {
	db          *gorm.DB
	maxAttempts int
}

// NewRepository creates a new adjustment repository.
func NewRepository(db *gorm.DB, maxAttempts int) *Repository {
	return &Repository{db: db, maxAttempts: maxAttempts}
}

// Enqueue durably inserts an adjustment with Synced=false and zero attempts.
func (r *Repository) Enqueue(a *entities.PendingAdjustment) error {
	a.Synced = false
	a.SyncAttempts = 0
	a.LastSyncAttempt = nil
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return r.db.Create(a).Error
}

// GetByID returns a single pending adjustment.
func (r *Repository) GetByID(id string) (*entities.PendingAdjustment, error) {
	var a entities.PendingAdjustment
	if err := r.db.First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// MarkSynced flips the record to synced. Idempotent.
func (r *Repository) MarkSynced(id string) error {
	return r.db.Model(&entities.PendingAdjustment{}).
		Where("id = ? AND synced = ?", id, false).
		Update("synced", true).Error
}

// RecordAttemptFailure consumes one retry credit.
func (r *Repository) RecordAttemptFailure(id string, at time.Time, errorMessage string) error {
	return r.db.Model(&entities.PendingAdjustment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"sync_attempts":     gorm.Expr("sync_attempts + 1"),
			"last_sync_attempt": at,
			"error_message":     errorMessage,
		}).Error
}

// SelectForSync returns eligible records, oldest first.
func (r *Repository) SelectForSync(now time.Time, retryInterval time.Duration) ([]entities.PendingAdjustment, error) {
	var records []entities.PendingAdjustment
	cutoff := now.Add(-retryInterval)
	err := r.db.
		Where("synced = ? AND sync_attempts < ?", false, r.maxAttempts).
		Where("last_sync_attempt IS NULL OR last_sync_attempt < ?", cutoff).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// ListPending returns every unsynced record regardless of eligibility.
func (r *Repository) ListPending() ([]entities.PendingAdjustment, error) {
	var records []entities.PendingAdjustment
	err := r.db.Where("synced = ?", false).Order("created_at ASC").Find(&records).Error
	return records, err
}

// ListDeadLetters returns unsynced records past the attempt budget.
func (r *Repository) ListDeadLetters() ([]entities.PendingAdjustment, error) {
	var records []entities.PendingAdjustment
	err := r.db.
		Where("synced = ? AND sync_attempts >= ?", false, r.maxAttempts).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// PurgeSynced hard-deletes synced records.
func (r *Repository) PurgeSynced() (int64, error) {
	result := r.db.Where("synced = ?", true).Delete(&entities.PendingAdjustment{})
	return result.RowsAffected, result.Error
}

// CountPending returns the number of unsynced records.
func (r *Repository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&entities.PendingAdjustment{}).Where("synced = ?", false).Count(&count).Error
	return count, err
}
