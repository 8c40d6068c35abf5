package entities

import (
	"time"
)

// PendingPlacement is a "put away" action captured locally and awaiting
// remote confirmation. The ID is generated on-device (uuid) so a record is
// globally addressable before the server has ever seen it. Synced flips
// 0->1 exactly once, after the remote service acknowledges the placement,
// and never flips back.
type PendingPlacement struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Article         string     `gorm:"index;size:64" json:"article"`
	Barcode         string     `gorm:"size:64" json:"barcode"`
	UnitTypeID      string     `gorm:"size:64" json:"unit_type_id"`
	Quantity        int        `json:"quantity"`
	CellBarcode     string     `gorm:"size:64" json:"cell_barcode"`
	Condition       Condition  `gorm:"size:20;default:'good'" json:"condition"`
	Reason          string     `gorm:"size:256" json:"reason,omitempty"`
	ExpirationDate  *time.Time `json:"expiration_date,omitempty"`
	Synced          bool       `gorm:"index;default:false" json:"synced"`
	SyncAttempts    int        `gorm:"default:0" json:"sync_attempts"`
	LastSyncAttempt *time.Time `json:"last_sync_attempt,omitempty"`
	ErrorMessage    string     `gorm:"size:512" json:"error_message,omitempty"`
	// IdempotencyKey is generated at enqueue time and sent with every
	// retry of this record, so an ambiguous timeout followed by a retry
	// cannot create a duplicate server-side placement.
	IdempotencyKey string    `gorm:"size:36" json:"idempotency_key"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (PendingPlacement) TableName() string {
	return "pending_placements"
}

// ConfirmedPlacement is the append-only local history of placements, kept
// for audit regardless of sync state. Rows are only ever created and have
// their Synced flag flipped; they are purged by retention, never edited.
type ConfirmedPlacement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PlacementID string    `gorm:"index;size:36" json:"placement_id"`
	Article     string    `gorm:"size:64" json:"article"`
	UnitTypeID  string    `gorm:"size:64" json:"unit_type_id"`
	Quantity    int       `json:"quantity"`
	CellBarcode string    `gorm:"size:64" json:"cell_barcode"`
	Condition   Condition `gorm:"size:20;default:'good'" json:"condition"`
	Synced      bool      `gorm:"index;default:false" json:"synced"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ConfirmedPlacement) TableName() string {
	return "confirmed_placements"
}
