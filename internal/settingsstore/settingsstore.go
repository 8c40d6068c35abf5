// Package settingsstore is the injected key-value preference service for
// cross-screen scratch state. Consumers receive it as an explicit
// dependency; nothing reads these keys through ambient globals.
package settingsstore

import (
	"time"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/config"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
)

type SettingsStore struct {
	db *database.Database
}

func New(db *database.Database) *SettingsStore {
	return &SettingsStore{db: db}
}

// GetCurrentWarehouseID returns the operator's selected warehouse.
// Defaults to config.DefaultWarehouseID until one is chosen.
func (s *SettingsStore) GetCurrentWarehouseID() string {
	setting, err := s.db.GetSetting(entities.SettingKeyCurrentWarehouseID)
	if err == nil && setting.Value != "" {
		return setting.Value
	}
	return config.DefaultWarehouseID
}

func (s *SettingsStore) SetCurrentWarehouseID(id string) error {
	return s.db.SetSetting(entities.SettingKeyCurrentWarehouseID, id)
}

// GetLastScannedCode returns the last barcode the operator scanned, or ""
// if nothing was scanned yet.
func (s *SettingsStore) GetLastScannedCode() string {
	setting, err := s.db.GetSetting(entities.SettingKeyLastScannedCode)
	if err != nil {
		return ""
	}
	return setting.Value
}

func (s *SettingsStore) SetLastScannedCode(code string) error {
	return s.db.SetSetting(entities.SettingKeyLastScannedCode, code)
}

// GetCatalogLastSyncAt returns when the catalog cache was last replaced,
// or nil if it never was.
func (s *SettingsStore) GetCatalogLastSyncAt() *time.Time {
	setting, err := s.db.GetSetting(entities.SettingKeyCatalogLastSyncAt)
	if err != nil || setting.Value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, setting.Value)
	if err != nil {
		return nil
	}
	return &t
}

// SetCatalogSyncStatus records the outcome of a catalog refresh.
func (s *SettingsStore) SetCatalogSyncStatus(status string, at time.Time) error {
	if err := s.db.SetSetting(entities.SettingKeyCatalogLastSyncStatus, status); err != nil {
		return err
	}
	return s.db.SetSetting(entities.SettingKeyCatalogLastSyncAt, at.Format(time.RFC3339))
}

// GetCatalogSyncStatus returns the last refresh outcome, or "" if unknown.
func (s *SettingsStore) GetCatalogSyncStatus() string {
	setting, err := s.db.GetSetting(entities.SettingKeyCatalogLastSyncStatus)
	if err != nil {
		return ""
	}
	return setting.Value
}

// SetSyncLastRun records when a reconciliation pass last ran and its
// one-line outcome.
func (s *SettingsStore) SetSyncLastRun(at time.Time, message string) error {
	if err := s.db.SetSetting(entities.SettingKeySyncLastRunAt, at.Format(time.RFC3339)); err != nil {
		return err
	}
	return s.db.SetSetting(entities.SettingKeySyncLastMessage, message)
}

// GetSyncLastRunAt returns when a reconciliation pass last ran, or nil.
func (s *SettingsStore) GetSyncLastRunAt() *time.Time {
	setting, err := s.db.GetSetting(entities.SettingKeySyncLastRunAt)
	if err != nil || setting.Value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, setting.Value)
	if err != nil {
		return nil
	}
	return &t
}

// Get reads an arbitrary named key. Returns "" when unset.
func (s *SettingsStore) Get(key string) string {
	setting, err := s.db.GetSetting(key)
	if err != nil {
		return ""
	}
	return setting.Value
}

// Set writes an arbitrary named key.
func (s *SettingsStore) Set(key, value string) error {
	return s.db.SetSetting(key, value)
}
