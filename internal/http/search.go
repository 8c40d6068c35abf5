package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/repository"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/settingsstore"
)

// SearchController serves local-first catalog search.
type SearchController struct {
	catalog  *repository.CatalogRepository
	settings *settingsstore.SettingsStore
}

func NewSearchController(catalog *repository.CatalogRepository, settings *settingsstore.SettingsStore) *SearchController {
	return &SearchController{catalog: catalog, settings: settings}
}

// Search handles GET /api/search?q=. Cached rows always answer; remote
// rows are merged in when the service is reachable.
func (sc *SearchController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		warehouseID = sc.settings.GetCurrentWarehouseID()
	}

	items, err := sc.catalog.Search(c.Request.Context(), query, warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}
