package entities

import (
	"time"
)

type Condition string

const (
	ConditionGood    Condition = "good"
	ConditionDamaged Condition = "damaged"
	ConditionExpired Condition = "expired"
)

// CatalogItem is cached read-only reference data about a product known to
// the remote warehouse service. The whole table is replaced on each
// successful catalog refresh; rows are never mutated field-by-field and
// are safe to read stale.
type CatalogItem struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProductID       string    `gorm:"index;size:64" json:"product_id"`
	Article         string    `gorm:"index;size:64" json:"article"`
	Barcode         string    `gorm:"index;size:64" json:"barcode"`
	Name            string    `gorm:"size:512" json:"name"`
	Quantity        int       `json:"quantity"`
	PlannedQuantity int       `json:"planned_quantity"`
	UnitTypeID      string    `gorm:"size:64" json:"unit_type_id"`
	Condition       Condition `gorm:"size:20;default:'good'" json:"condition"`
	ExpirationDate  *time.Time `json:"expiration_date,omitempty"`
	WarehouseID     string    `gorm:"index;size:20" json:"warehouse_id"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (CatalogItem) TableName() string {
	return "catalog_items"
}
