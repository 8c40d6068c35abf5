package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Operator scratch state shared across screens
	SettingKeyCurrentWarehouseID = "current_warehouse_id"
	SettingKeyLastScannedCode    = "last_scanned_code"

	// Catalog refresh bookkeeping
	SettingKeyCatalogLastSyncAt     = "catalog_last_sync_at"
	SettingKeyCatalogLastSyncStatus = "catalog_last_sync_status"

	// Queue reconciliation bookkeeping
	SettingKeySyncLastRunAt   = "sync_last_run_at"
	SettingKeySyncLastMessage = "sync_last_message"
)
