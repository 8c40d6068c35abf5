// Package catalog provides database operations for the read-only catalog
// cache. The cache is replaced wholesale on refresh, never merged row by
// row, and the replace is transactional so a failed refresh leaves the
// previous cache intact.
package catalog

import (
	"gorm.io/gorm"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
)

// Repository handles all catalog cache database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReplaceAll clears the cache and bulk-inserts the new items as one
// transaction. Either the whole refresh lands or the old cache survives.
func (r *Repository) ReplaceAll(items []entities.CatalogItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entities.CatalogItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(items, 200).Error
	})
}

// Search matches article, barcode or name against the query.
func (r *Repository) Search(query string) ([]entities.CatalogItem, error) {
	var items []entities.CatalogItem
	pattern := "%" + query + "%"
	err := r.db.
		Where("article LIKE ? OR barcode LIKE ? OR LOWER(name) LIKE LOWER(?)", pattern, pattern, pattern).
		Order("article ASC").
		Find(&items).Error
	return items, err
}

// GetByProductID returns a single cached item.
func (r *Repository) GetByProductID(productID string) (*entities.CatalogItem, error) {
	var item entities.CatalogItem
	if err := r.db.First(&item, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertByProductID writes remote search results back into the cache:
// a known product id is overwritten, an unseen one is inserted.
func (r *Repository) UpsertByProductID(items []entities.CatalogItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range items {
			var existing entities.CatalogItem
			err := tx.First(&existing, "product_id = ?", items[i].ProductID).Error
			if err == gorm.ErrRecordNotFound {
				if err := tx.Create(&items[i]).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}
			items[i].ID = existing.ID
			if err := tx.Save(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the cache size.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.CatalogItem{}).Count(&count).Error
	return count, err
}
