package handlers

import (
	"net/http"

	"peerlend/internal/auth"
	"peerlend/internal/services"

	"github.com/gin-gonic/gin"
)

type PositionHandler struct {
	positionService *services.PositionService
}

func NewPositionHandler(positionService *services.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// GetPositions returns the user's positions grouped by month, newest first
// GET /api/positions
func (h *PositionHandler) GetPositions(c *gin.Context) {
	address, exists := auth.GetWalletAddress(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	positions, err := h.positionService.Positions(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, positions)
}
