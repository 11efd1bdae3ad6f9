package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"peerlend/internal/models"
)

type countingSubmitter struct {
	actionCalls  int
	depositCalls int
	actionErr    error
	depositErr   error
	lastAction   models.ActionRequest
}

func (c *countingSubmitter) SubmitAction(ctx context.Context, userAddress string, req models.ActionRequest) (string, error) {
	c.actionCalls++
	c.lastAction = req
	if c.actionErr != nil {
		return "", c.actionErr
	}
	return "0xactionhash", nil
}

func (c *countingSubmitter) SubmitDeposit(ctx context.Context, userAddress string, req models.DepositRequest) (string, error) {
	c.depositCalls++
	if c.depositErr != nil {
		return "", c.depositErr
	}
	return "0xdeposithash", nil
}

func lendAction(amount float64) models.ActionRequest {
	return models.ActionRequest{
		Kind:   models.ActionCreateLending,
		Token:  "STRK",
		Amount: decimal.NewFromFloat(amount),
		Invoke: json.RawMessage(`{"calldata":[]}`),
	}
}

func TestGateSufficientBalanceSubmitsImmediately(t *testing.T) {
	sub := &countingSubmitter{}
	gate := NewCollateralGate(sub, sub, decimal.NewFromInt(2))

	// Balance 100 covers 40 * 2.
	res, err := gate.RequestAction(context.Background(), "0x1", lendAction(40), decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("RequestAction failed: %v", err)
	}
	if res.State != GateCompleted {
		t.Fatalf("expected COMPLETED, got %s", res.State)
	}
	if res.TxHash != "0xactionhash" {
		t.Errorf("expected action hash, got %q", res.TxHash)
	}
	if sub.actionCalls != 1 {
		t.Errorf("expected 1 action submission, got %d", sub.actionCalls)
	}
	if _, ok := gate.Pending("0x1"); ok {
		t.Error("nothing should be pending after an immediate submission")
	}
}

func TestGateDefersThenReplaysExactlyOnce(t *testing.T) {
	sub := &countingSubmitter{}
	gate := NewCollateralGate(sub, sub, decimal.NewFromInt(2))

	// 1. Balance 50 does not cover 40 * 2 = 80: the action is deferred.
	res, err := gate.RequestAction(context.Background(), "0x1", lendAction(40), decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("RequestAction failed: %v", err)
	}
	if res.State != GateAwaitingDeposit {
		t.Fatalf("expected AWAITING_DEPOSIT, got %s", res.State)
	}
	if !res.Required.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected required collateral 80, got %s", res.Required)
	}
	if sub.actionCalls != 0 {
		t.Fatalf("deferred action must not be submitted, got %d calls", sub.actionCalls)
	}
	if _, ok := gate.Pending("0x1"); !ok {
		t.Fatal("expected a pending action")
	}

	// 2. Completing the deposit replays the remembered action.
	dep := models.DepositRequest{Token: "STRK", Amount: decimal.NewFromInt(100), Invoke: json.RawMessage(`{}`)}
	res, err = gate.CompleteDeposit(context.Background(), "0x1", dep)
	if err != nil {
		t.Fatalf("CompleteDeposit failed: %v", err)
	}
	if res.State != GateCompleted {
		t.Fatalf("expected COMPLETED, got %s", res.State)
	}
	if sub.depositCalls != 1 || sub.actionCalls != 1 {
		t.Fatalf("expected 1 deposit + 1 action, got %d + %d", sub.depositCalls, sub.actionCalls)
	}
	if sub.lastAction.Kind != models.ActionCreateLending {
		t.Errorf("replayed wrong action kind: %s", sub.lastAction.Kind)
	}

	// 3. A later deposit finds nothing pending and must not replay again.
	res, err = gate.CompleteDeposit(context.Background(), "0x1", dep)
	if err != nil {
		t.Fatalf("CompleteDeposit failed: %v", err)
	}
	if res.State != GateCompleted {
		t.Fatalf("expected COMPLETED for plain deposit, got %s", res.State)
	}
	if sub.actionCalls != 1 {
		t.Errorf("action replayed %d times, want exactly 1", sub.actionCalls)
	}
}

func TestGateFailedDepositKeepsPendingAction(t *testing.T) {
	sub := &countingSubmitter{depositErr: errors.New("user rejected signature")}
	gate := NewCollateralGate(sub, sub, decimal.NewFromInt(2))

	if _, err := gate.RequestAction(context.Background(), "0x1", lendAction(40), decimal.NewFromInt(50)); err != nil {
		t.Fatalf("RequestAction failed: %v", err)
	}

	dep := models.DepositRequest{Token: "STRK", Amount: decimal.NewFromInt(100), Invoke: json.RawMessage(`{}`)}
	res, err := gate.CompleteDeposit(context.Background(), "0x1", dep)
	if err == nil {
		t.Fatal("expected deposit failure to propagate")
	}
	if res.State != GateAwaitingDeposit {
		t.Fatalf("expected AWAITING_DEPOSIT after failed deposit, got %s", res.State)
	}
	if sub.actionCalls != 0 {
		t.Errorf("action must not run after a failed deposit, got %d calls", sub.actionCalls)
	}

	// The remembered action survives for a retry.
	if _, ok := gate.Pending("0x1"); !ok {
		t.Error("expected pending action to survive the failed deposit")
	}

	// Retry with a working deposit succeeds and replays once.
	sub.depositErr = nil
	res, err = gate.CompleteDeposit(context.Background(), "0x1", dep)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if res.State != GateCompleted || sub.actionCalls != 1 {
		t.Errorf("expected completed retry with 1 action call, got %s with %d", res.State, sub.actionCalls)
	}
}

func TestGateFailedReplayDoesNotRetry(t *testing.T) {
	sub := &countingSubmitter{actionErr: errors.New("contract revert")}
	gate := NewCollateralGate(sub, sub, decimal.NewFromInt(2))

	if _, err := gate.RequestAction(context.Background(), "0x1", lendAction(40), decimal.NewFromInt(50)); err != nil {
		t.Fatalf("RequestAction failed: %v", err)
	}

	dep := models.DepositRequest{Token: "STRK", Amount: decimal.NewFromInt(100), Invoke: json.RawMessage(`{}`)}
	res, err := gate.CompleteDeposit(context.Background(), "0x1", dep)
	if err == nil {
		t.Fatal("expected replay failure to propagate")
	}
	if res.State != GateFailed {
		t.Fatalf("expected FAILED, got %s", res.State)
	}

	// The action was claimed before the replay; a financial action is never
	// retried automatically.
	if _, ok := gate.Pending("0x1"); ok {
		t.Error("failed replay must not leave the action pending")
	}
	if sub.actionCalls != 1 {
		t.Errorf("expected exactly 1 replay attempt, got %d", sub.actionCalls)
	}
}

func TestGateAbandonClearsPending(t *testing.T) {
	sub := &countingSubmitter{}
	gate := NewCollateralGate(sub, sub, decimal.NewFromInt(2))

	if _, err := gate.RequestAction(context.Background(), "0x1", lendAction(40), decimal.NewFromInt(50)); err != nil {
		t.Fatalf("RequestAction failed: %v", err)
	}

	gate.AbandonDeposit("0x1")
	if _, ok := gate.Pending("0x1"); ok {
		t.Fatal("expected abandon to clear the pending action")
	}

	// Abandoning with nothing pending is a no-op.
	gate.AbandonDeposit("0x1")

	// A later deposit is a plain deposit, no stale replay.
	dep := models.DepositRequest{Token: "STRK", Amount: decimal.NewFromInt(100), Invoke: json.RawMessage(`{}`)}
	res, err := gate.CompleteDeposit(context.Background(), "0x1", dep)
	if err != nil {
		t.Fatalf("CompleteDeposit failed: %v", err)
	}
	if res.State != GateCompleted || sub.actionCalls != 0 {
		t.Errorf("expected plain deposit with no replay, got %s with %d action calls", res.State, sub.actionCalls)
	}
}
