package repository

import (
	"context"
	"log"
	"time"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/database/catalog"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/warehouse"
)

// CatalogRepository owns the catalog cache: local-first search and the
// transactional full refresh.
type CatalogRepository struct {
	store   *catalog.Repository
	client  *warehouse.Client
	network NetworkChecker
}

// NewCatalogRepository creates a catalog repository.
func NewCatalogRepository(store *catalog.Repository, client *warehouse.Client, network NetworkChecker) *CatalogRepository {
	return &CatalogRepository{
		store:   store,
		client:  client,
		network: network,
	}
}

// Search is local-first: cached rows always answer. When the network is
// available the remote service is also queried, remote rows overwrite
// cached rows sharing a product id, unseen ids are unioned in, and the
// remote rows are persisted back into the cache. A failed remote call
// degrades silently to the local result.
func (r *CatalogRepository) Search(ctx context.Context, query, warehouseID string) ([]entities.CatalogItem, error) {
	local, err := r.store.Search(query)
	if err != nil {
		return nil, err
	}

	if !r.network.IsAvailable() {
		return local, nil
	}

	remote, err := r.client.SearchItems(ctx, query, warehouseID)
	if err != nil {
		log.Printf("Catalog search: remote lookup failed, serving cached rows: %v", err)
		return local, nil
	}

	remoteItems := make([]entities.CatalogItem, 0, len(remote))
	for _, d := range remote {
		remoteItems = append(remoteItems, itemFromRemote(d))
	}
	if err := r.store.UpsertByProductID(remoteItems); err != nil {
		return nil, err
	}

	return mergeByProductID(local, remoteItems), nil
}

// SyncCatalog refreshes the whole cache. Offline is a no-op. The clear
// happens only after the fetch and decode succeed, inside one store
// transaction, so a refresh failing partway leaves the old cache intact.
func (r *CatalogRepository) SyncCatalog(ctx context.Context, warehouseID string) (int, error) {
	if !r.network.IsAvailable() {
		return 0, nil
	}

	remote, err := r.client.ListCatalog(ctx, warehouseID)
	if err != nil {
		return 0, err
	}

	items := make([]entities.CatalogItem, 0, len(remote))
	now := time.Now()
	for _, d := range remote {
		item := itemFromRemote(d)
		item.UpdatedAt = now
		items = append(items, item)
	}

	if err := r.store.ReplaceAll(items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// mergeByProductID unions local and remote rows; a remote duplicate of a
// known product id wins.
func mergeByProductID(local, remote []entities.CatalogItem) []entities.CatalogItem {
	merged := make([]entities.CatalogItem, 0, len(local)+len(remote))
	index := make(map[string]int, len(local))

	for _, item := range local {
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	for _, item := range remote {
		if i, seen := index[item.ProductID]; seen {
			merged[i] = item
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

func itemFromRemote(d warehouse.ItemData) entities.CatalogItem {
	condition := entities.Condition(d.Condition)
	if condition == "" {
		condition = entities.ConditionGood
	}
	return entities.CatalogItem{
		ProductID:       d.ProductID,
		Article:         d.Article,
		Barcode:         d.Barcode,
		Name:            d.Name,
		Quantity:        d.Quantity,
		PlannedQuantity: d.PlannedQuantity,
		UnitTypeID:      d.UnitTypeID,
		Condition:       condition,
		ExpirationDate:  d.ExpirationDate,
		WarehouseID:     d.WarehouseID,
	}
}
