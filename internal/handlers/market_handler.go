package handlers

import (
	"net/http"
	"strconv"

	"peerlend/internal/auth"
	"peerlend/internal/models"
	"peerlend/internal/services"

	"github.com/gin-gonic/gin"
)

type MarketHandler struct {
	marketService *services.MarketService
}

func NewMarketHandler(marketService *services.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// GetMarket returns one page of the open-market view
// GET /api/market?filter_option=token&filter_value=STRK&page=2
func (h *MarketHandler) GetMarket(c *gin.Context) {
	address, exists := auth.GetWalletAddress(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	filter := models.FilterState{
		Option: models.FilterOption(c.Query("filter_option")),
		Value:  c.Query("filter_value"),
	}

	page := 0
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		page = parsed
	}

	view, err := h.marketService.View(address, filter, page)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, view)
}

// Refresh forces a feed refresh outside the polling interval
// POST /api/market/refresh
func (h *MarketHandler) Refresh(c *gin.Context) {
	if err := h.marketService.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}
