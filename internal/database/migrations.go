package database

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
)

// Schema evolution is additive and ordered: each step adds the tables or
// columns one client capability needed, so a client jumping several
// versions replays the same sequence instead of a destructive rebuild.
// Steps are append-only; never edit or reorder a shipped step.
var migrations = []*gormigrate.Migration{
	{
		// Catalog cache and operator preferences.
		ID: "202403_initial",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&entities.CatalogItem{}, &entities.Setting{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("catalog_items", "settings")
		},
	},
	{
		// Inventory count corrections taken while possibly offline.
		ID: "202405_pending_adjustments",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&entities.PendingAdjustment{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("pending_adjustments")
		},
	},
	{
		// Placement queue plus the append-only placement history.
		ID: "202406_placement_queue",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&entities.PendingPlacement{}, &entities.ConfirmedPlacement{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("pending_placements", "confirmed_placements")
		},
	},
	{
		// Retry bookkeeping: attempts counter, last attempt, error text.
		// Guarded AddColumn keeps the step replayable over databases
		// created by the AutoMigrate steps above.
		ID: "202407_attempt_bookkeeping",
		Migrate: func(tx *gorm.DB) error {
			for _, col := range []string{"sync_attempts", "last_sync_attempt", "error_message"} {
				if !tx.Migrator().HasColumn(&entities.PendingPlacement{}, col) {
					if err := tx.Migrator().AddColumn(&entities.PendingPlacement{}, col); err != nil {
						return err
					}
				}
				if !tx.Migrator().HasColumn(&entities.PendingAdjustment{}, col) {
					if err := tx.Migrator().AddColumn(&entities.PendingAdjustment{}, col); err != nil {
						return err
					}
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return nil
		},
	},
	{
		// Idempotency keys, generated at enqueue time and carried on every
		// retry so ambiguous failures cannot duplicate remote placements.
		ID: "202408_idempotency_keys",
		Migrate: func(tx *gorm.DB) error {
			if !tx.Migrator().HasColumn(&entities.PendingPlacement{}, "idempotency_key") {
				if err := tx.Migrator().AddColumn(&entities.PendingPlacement{}, "idempotency_key"); err != nil {
					return err
				}
			}
			if !tx.Migrator().HasColumn(&entities.PendingAdjustment{}, "idempotency_key") {
				if err := tx.Migrator().AddColumn(&entities.PendingAdjustment{}, "idempotency_key"); err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return nil
		},
	},
}

// Migrate replays all registered schema steps. If the database carries a
// migration stamp this binary does not know (a downgrade, or a corrupted
// version marker), there is no additive path and the store is rebuilt
// from empty. That path loses unsynced data and is logged loudly; it must
// never trigger for a normal upgrade.
func Migrate(db *gorm.DB) error {
	if unknown, err := unknownMigrationStamps(db); err != nil {
		return err
	} else if len(unknown) > 0 {
		log.Printf("WARNING: database carries unknown schema versions %v; rebuilding store from empty (unsynced data is lost)", unknown)
		if err := dropAllTables(db); err != nil {
			return fmt.Errorf("failed to rebuild database: %w", err)
		}
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations)
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func unknownMigrationStamps(db *gorm.DB) ([]string, error) {
	if !db.Migrator().HasTable("migrations") {
		return nil, nil
	}

	var applied []string
	if err := db.Table("migrations").Pluck("id", &applied).Error; err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(migrations))
	for _, m := range migrations {
		known[m.ID] = true
	}

	var unknown []string
	for _, id := range applied {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	return unknown, nil
}

func dropAllTables(db *gorm.DB) error {
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return err
	}
	start := time.Now()
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return err
		}
	}
	log.Printf("Dropped %d tables in %v", len(tables), time.Since(start).Round(time.Millisecond))
	return nil
}
