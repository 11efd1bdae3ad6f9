package handlers

import (
	"net/http"

	"peerlend/internal/auth"
	"peerlend/internal/models"
	"peerlend/internal/services"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
	activityService    *services.ActivityService
}

func NewTransactionHandler(transactionService *services.TransactionService, activityService *services.ActivityService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		activityService:    activityService,
	}
}

// RecordTransaction appends a ledger entry
// POST /api/transactions
func (h *TransactionHandler) RecordTransaction(c *gin.Context) {
	var req models.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.transactionService.Record(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// ListTransactions returns the user's ledger for a period
// GET /api/transactions?period=1%20week
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	address, exists := auth.GetWalletAddress(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	transactions, err := h.transactionService.List(c.Request.Context(), address, c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetActivity returns the bucketed activity chart
// GET /api/transactions/activity?period=max&granularity=week
func (h *TransactionHandler) GetActivity(c *gin.Context) {
	address, exists := auth.GetWalletAddress(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	granularity := models.ActivityGranularity(c.DefaultQuery("granularity", string(models.GranularityDay)))
	switch granularity {
	case models.GranularityDay, models.GranularityWeek, models.GranularityMonth:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid granularity"})
		return
	}

	points, err := h.activityService.Activity(c.Request.Context(), address, c.Query("period"), granularity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, points)
}
