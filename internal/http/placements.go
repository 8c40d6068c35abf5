package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/repository"
)

// PlacementController handles placement capture and queue inspection.
type PlacementController struct {
	repo *repository.PlacementRepository
}

func NewPlacementController(repo *repository.PlacementRepository) *PlacementController {
	return &PlacementController{repo: repo}
}

type CreatePlacementRequest struct {
	Article        string     `json:"article" binding:"required"`
	Barcode        string     `json:"barcode"`
	UnitTypeID     string     `json:"unit_type_id"`
	Quantity       int        `json:"quantity" binding:"required,gt=0"`
	CellBarcode    string     `json:"cell_barcode" binding:"required"`
	Condition      string     `json:"condition"`
	Reason         string     `json:"reason"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

type CreatePlacementResponse struct {
	ID     string `json:"id"`
	Synced bool   `json:"synced"`
}

// Create captures a placement. Always 201 on durable capture: a failed
// immediate send is not a failure of the user-visible operation, the
// response only reports whether the record already reached the service.
func (pc *PlacementController) Create(c *gin.Context) {
	var req CreatePlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	condition := entities.Condition(req.Condition)
	if condition == "" {
		condition = entities.ConditionGood
	}

	placement := &entities.PendingPlacement{
		Article:        req.Article,
		Barcode:        req.Barcode,
		UnitTypeID:     req.UnitTypeID,
		Quantity:       req.Quantity,
		CellBarcode:    req.CellBarcode,
		Condition:      condition,
		Reason:         req.Reason,
		ExpirationDate: req.ExpirationDate,
	}

	sent, err := pc.repo.CreatePlacement(c.Request.Context(), placement)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store placement: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, CreatePlacementResponse{
		ID:     placement.ID,
		Synced: sent,
	})
}

func (pc *PlacementController) ListPending(c *gin.Context) {
	records, err := pc.repo.ListPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"placements": records})
}

func (pc *PlacementController) ListDeadLetters(c *gin.Context) {
	records, err := pc.repo.ListDeadLetters()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"placements": records})
}

func (pc *PlacementController) ListHistory(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := pc.repo.ListHistory(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"placements": records})
}
