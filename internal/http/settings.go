package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/settingsstore"
)

// SettingsController exposes the operator preference store. Only known
// keys are accepted; this is scratch state, not a generic KV service.
type SettingsController struct {
	store *settingsstore.SettingsStore
}

var writableSettingKeys = map[string]bool{
	entities.SettingKeyCurrentWarehouseID: true,
	entities.SettingKeyLastScannedCode:    true,
}

func NewSettingsController(store *settingsstore.SettingsStore) *SettingsController {
	return &SettingsController{store: store}
}

type SetSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

func (sc *SettingsController) Get(c *gin.Context) {
	key := c.Param("key")
	if !writableSettingKeys[key] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown setting key"})
		return
	}

	var value string
	switch key {
	case entities.SettingKeyCurrentWarehouseID:
		value = sc.store.GetCurrentWarehouseID()
	default:
		value = sc.store.Get(key)
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

func (sc *SettingsController) Set(c *gin.Context) {
	key := c.Param("key")
	if !writableSettingKeys[key] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown setting key"})
		return
	}

	var req SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sc.store.Set(key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
}
