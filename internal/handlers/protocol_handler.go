package handlers

import (
	"net/http"

	"peerlend/internal/models"
	"peerlend/internal/services"

	"github.com/gin-gonic/gin"
)

type ProtocolHandler struct {
	protocolService *services.ProtocolService
}

func NewProtocolHandler(protocolService *services.ProtocolService) *ProtocolHandler {
	return &ProtocolHandler{
		protocolService: protocolService,
	}
}

// GetProtocolData returns the running totals
// GET /api/protocol-data
func (h *ProtocolHandler) GetProtocolData(c *gin.Context) {
	data, err := h.protocolService.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, data)
}

// ApplyDelta adds to the running totals
// POST /api/protocol-data
func (h *ProtocolHandler) ApplyDelta(c *gin.Context) {
	var delta models.ProtocolDeltaRequest
	if err := c.ShouldBindJSON(&delta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.protocolService.ApplyDelta(c.Request.Context(), delta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, data)
}
