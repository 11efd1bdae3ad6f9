package handlers

import (
	"net/http"

	"peerlend/internal/services"

	"github.com/gin-gonic/gin"
)

type PriceHandler struct {
	priceService *services.PriceService
}

func NewPriceHandler(priceService *services.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

// GetPrices returns ETH and STRK USD prices
// GET /api/prices
func (h *PriceHandler) GetPrices(c *gin.Context) {
	prices, err := h.priceService.GetCryptoPrices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, prices)
}
