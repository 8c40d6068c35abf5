package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aristvodolaz/storage-mobile-sub000/internal/entities"
	"github.com/Aristvodolaz/storage-mobile-sub000/internal/repository"
)

// AdjustmentController handles inventory-adjustment capture and queue
// inspection.
type AdjustmentController struct {
	repo *repository.AdjustmentRepository
}

func NewAdjustmentController(repo *repository.AdjustmentRepository) *AdjustmentController {
	return &AdjustmentController{repo: repo}
}

type CreateAdjustmentRequest struct {
	ProductID        string     `json:"product_id" binding:"required"`
	LocationID       string     `json:"location_id" binding:"required"`
	ExpectedQuantity int        `json:"expected_quantity"`
	ActualQuantity   int        `json:"actual_quantity"`
	Condition        string     `json:"condition"`
	Reason           string     `json:"reason"`
	ExpirationDate   *time.Time `json:"expiration_date"`
}

type CreateAdjustmentResponse struct {
	ID     string `json:"id"`
	Synced bool   `json:"synced"`
}

func (ac *AdjustmentController) Create(c *gin.Context) {
	var req CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	condition := entities.Condition(req.Condition)
	if condition == "" {
		condition = entities.ConditionGood
	}

	adjustment := &entities.PendingAdjustment{
		ProductID:        req.ProductID,
		LocationID:       req.LocationID,
		ExpectedQuantity: req.ExpectedQuantity,
		ActualQuantity:   req.ActualQuantity,
		Condition:        condition,
		Reason:           req.Reason,
		ExpirationDate:   req.ExpirationDate,
	}

	sent, err := ac.repo.CreateAdjustment(c.Request.Context(), adjustment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store adjustment: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, CreateAdjustmentResponse{
		ID:     adjustment.ID,
		Synced: sent,
	})
}

func (ac *AdjustmentController) ListPending(c *gin.Context) {
	records, err := ac.repo.ListPending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"adjustments": records})
}

func (ac *AdjustmentController) ListDeadLetters(c *gin.Context) {
	records, err := ac.repo.ListDeadLetters()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"adjustments": records})
}
