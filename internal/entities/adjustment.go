package entities

import (
	"time"
)

// PendingAdjustment is an inventory count correction awaiting remote
// confirmation. It carries the same attempt bookkeeping as
// PendingPlacement so both queues share one retry policy.
type PendingAdjustment struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	ProductID        string     `gorm:"index;size:64" json:"product_id"`
	LocationID       string     `gorm:"size:64" json:"location_id"`
	ExpectedQuantity int        `json:"expected_quantity"`
	ActualQuantity   int        `json:"actual_quantity"`
	Condition        Condition  `gorm:"size:20;default:'good'" json:"condition"`
	Reason           string     `gorm:"size:256" json:"reason,omitempty"`
	ExpirationDate   *time.Time `json:"expiration_date,omitempty"`
	Synced           bool       `gorm:"index;default:false" json:"synced"`
	SyncAttempts     int        `gorm:"default:0" json:"sync_attempts"`
	LastSyncAttempt  *time.Time `json:"last_sync_attempt,omitempty"`
	ErrorMessage     string     `gorm:"size:512" json:"error_message,omitempty"`
	IdempotencyKey   string     `gorm:"size:36" json:"idempotency_key"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
}

func (PendingAdjustment) TableName() string {
	return "pending_adjustments"
}
