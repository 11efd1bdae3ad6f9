package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"peerlend/internal/models"
)

// GateState names the stages of the collateral-gated action workflow.
type GateState string

const (
	GateIdle             GateState = "IDLE"
	GateChecking         GateState = "CHECKING"
	GateProceeding       GateState = "PROCEEDING"
	GateAwaitingDeposit  GateState = "AWAITING_DEPOSIT"
	GateDepositSubmitted GateState = "DEPOSIT_SUBMITTED"
	GateDepositConfirmed GateState = "DEPOSIT_CONFIRMED"
	GateCompleted        GateState = "COMPLETED"
	GateFailed           GateState = "FAILED"
)

// ActionSubmitter submits a lending action to the chain and reports the
// transaction hash once the submission is confirmed.
type ActionSubmitter interface {
	SubmitAction(ctx context.Context, userAddress string, req models.ActionRequest) (string, error)
}

// DepositSubmitter submits the two-step approve+deposit call.
type DepositSubmitter interface {
	SubmitDeposit(ctx context.Context, userAddress string, req models.DepositRequest) (string, error)
}

type pendingAction struct {
	id        uuid.UUID
	request   models.ActionRequest
	required  decimal.Decimal
	createdAt time.Time
}

// CollateralGate enforces the over-collateralization rule in front of every
// lending action: the user's available balance must cover amount multiplied
// by the configured multiple. An action blocked on collateral is remembered
// and replayed exactly once after the covering deposit confirms.
type CollateralGate struct {
	actions  ActionSubmitter
	deposits DepositSubmitter
	multiple decimal.Decimal

	mu      sync.Mutex
	pending map[string]*pendingAction // keyed by normalized user address
}

// NewCollateralGate creates a new CollateralGate
func NewCollateralGate(actions ActionSubmitter, deposits DepositSubmitter, multiple decimal.Decimal) *CollateralGate {
	return &CollateralGate{
		actions:  actions,
		deposits: deposits,
		multiple: multiple,
		pending:  make(map[string]*pendingAction),
	}
}

// GateResult reports the outcome of a gate transition.
type GateResult struct {
	State     GateState       `json:"state"`
	TxHash    string          `json:"transaction_hash,omitempty"`
	Required  decimal.Decimal `json:"required_collateral,omitempty"`
	PendingID string          `json:"pending_id,omitempty"`
}

// RequestAction runs the collateral check for one action. With sufficient
// balance the action is submitted immediately; otherwise it is remembered
// and the caller is told to open the deposit flow.
func (g *CollateralGate) RequestAction(ctx context.Context, userAddress string, req models.ActionRequest, availableBalance decimal.Decimal) (GateResult, error) {
	required := req.Amount.Mul(g.multiple)

	if availableBalance.Cmp(required) < 0 {
		p := &pendingAction{
			id:        uuid.New(),
			request:   req,
			required:  required,
			createdAt: time.Now(),
		}
		g.mu.Lock()
		g.pending[userAddress] = p
		g.mu.Unlock()

		log.Printf("[Gate] %s needs %s collateral for %s %s, has %s; deferring",
			userAddress, required, req.Kind, req.Amount, availableBalance)
		return GateResult{State: GateAwaitingDeposit, Required: required, PendingID: p.id.String()}, nil
	}

	txHash, err := g.actions.SubmitAction(ctx, userAddress, req)
	if err != nil {
		return GateResult{State: GateFailed}, err
	}
	return GateResult{State: GateCompleted, TxHash: txHash}, nil
}

// CompleteDeposit runs the deposit call and, on confirmed success, replays
// the remembered action exactly once. A failed deposit leaves the remembered
// action intact so the user can retry without re-entering it.
func (g *CollateralGate) CompleteDeposit(ctx context.Context, userAddress string, dep models.DepositRequest) (GateResult, error) {
	depositHash, err := g.deposits.SubmitDeposit(ctx, userAddress, dep)
	if err != nil {
		return GateResult{State: GateAwaitingDeposit}, fmt.Errorf("deposit failed: %w", err)
	}

	// Claim the remembered action under the lock before invoking it, so a
	// concurrent completion cannot replay it a second time.
	g.mu.Lock()
	p := g.pending[userAddress]
	delete(g.pending, userAddress)
	g.mu.Unlock()

	if p == nil {
		// Plain deposit with nothing gated behind it.
		return GateResult{State: GateCompleted, TxHash: depositHash}, nil
	}

	txHash, err := g.actions.SubmitAction(ctx, userAddress, p.request)
	if err != nil {
		// The deposit stands; the action is not retried automatically.
		return GateResult{State: GateFailed}, fmt.Errorf("resumed action failed: %w", err)
	}

	log.Printf("[Gate] Resumed %s for %s after deposit %s", p.request.Kind, userAddress, depositHash)
	return GateResult{State: GateCompleted, TxHash: txHash}, nil
}

// AbandonDeposit discards the remembered action when the user closes the
// deposit flow. No error: the action simply does not proceed, and a later
// unrelated deposit will not trigger a stale replay.
func (g *CollateralGate) AbandonDeposit(userAddress string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.pending[userAddress]; ok {
		delete(g.pending, userAddress)
		log.Printf("[Gate] Pending action for %s abandoned", userAddress)
	}
}

// Pending reports the action currently gated behind a deposit, if any.
func (g *CollateralGate) Pending(userAddress string) (models.ActionRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.pending[userAddress]
	if !ok {
		return models.ActionRequest{}, false
	}
	return p.request, true
}
