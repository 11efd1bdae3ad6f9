package handlers

import (
	"errors"
	"net/http"

	"peerlend/internal/auth"
	"peerlend/internal/models"
	"peerlend/internal/services"

	"github.com/gin-gonic/gin"
)

// ActionHandler routes every lending action through the collateral gate.
type ActionHandler struct {
	gate            *services.CollateralGate
	proposalService *services.ProposalService
}

func NewActionHandler(gate *services.CollateralGate, proposalService *services.ProposalService) *ActionHandler {
	return &ActionHandler{
		gate:            gate,
		proposalService: proposalService,
	}
}

// SubmitAction requests an accept/cancel/repay/create action. Amounts are
// USD notionals; base-unit token quantities are converted by the dashboard
// before they reach this endpoint.
// POST /api/actions
func (h *ActionHandler) SubmitAction(c *gin.Context) {
	address, exists := auth.GetWalletAddress(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := h.proposalService.AvailableBalance(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gate.RequestAction(c.Request.Context(), address, req, balance)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrActionSubmissionFailed) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error(), "state": result.State})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CompleteDeposit finishes the deposit flow; if an action was gated behind
// it, the gate resumes that action exactly once.
// POST /api/actions/deposit
func (h *ActionHandler) CompleteDeposit(c *gin.Context) {
	address, exists := auth.GetWalletAddress(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gate.CompleteDeposit(c.Request.Context(), address, req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "state": result.State})
		return
	}

	c.JSON(http.StatusOK, result)
}

// AbandonDeposit discards the remembered action when the deposit dialog is
// closed. Not an error; a later unrelated deposit must not replay it.
// DELETE /api/actions/pending
func (h *ActionHandler) AbandonDeposit(c *gin.Context) {
	address, exists := auth.GetWalletAddress(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	h.gate.AbandonDeposit(address)
	c.JSON(http.StatusOK, gin.H{"state": services.GateIdle})
}

// GetPending reports the action currently gated behind a deposit
// GET /api/actions/pending
func (h *ActionHandler) GetPending(c *gin.Context) {
	address, exists := auth.GetWalletAddress(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	pending, ok := h.gate.Pending(address)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"state": services.GateIdle})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": services.GateAwaitingDeposit, "action": pending})
}

// GetAssetOverview returns the profile dashboard's asset aggregate
// GET /api/assets/overview
func (h *ActionHandler) GetAssetOverview(c *gin.Context) {
	address, exists := auth.GetWalletAddress(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	overview, err := h.proposalService.AssetOverview(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, overview)
}
