package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"peerlend/internal/models"
	"peerlend/internal/repository"
)

func TestProtocolSnapshotCreatesZeroRow(t *testing.T) {
	db := setupTestDB(t)
	db.Exec("DELETE FROM protocol_data")

	service := NewProtocolService(repository.NewRepository(db))

	data, err := service.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if !data.TotalLend.IsZero() || !data.TotalBorrow.IsZero() || data.TotalP2PDeals != 0 {
		t.Errorf("expected zero aggregate on first access, got %+v", data)
	}
}

func TestProtocolApplyDeltaIsAdditive(t *testing.T) {
	db := setupTestDB(t)
	db.Exec("DELETE FROM protocol_data")

	service := NewProtocolService(repository.NewRepository(db))
	ctx := context.Background()

	// 1. A lending proposal adds to lend, deals and TVL.
	data, err := service.ApplyDelta(ctx, models.ProtocolDeltaRequest{
		TotalLend:        decimal.NewFromInt(100),
		TotalP2PDeals:    1,
		TotalValueLocked: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}
	if !data.TotalLend.Equal(decimal.NewFromInt(100)) || data.TotalP2PDeals != 1 {
		t.Fatalf("unexpected aggregate after create: %+v", data)
	}

	// 2. A second delta accumulates rather than overwrites.
	data, err = service.ApplyDelta(ctx, models.ProtocolDeltaRequest{
		TotalBorrow:   decimal.NewFromInt(40),
		TotalP2PDeals: 1,
	})
	if err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}
	if !data.TotalLend.Equal(decimal.NewFromInt(100)) {
		t.Errorf("lend total clobbered: %s", data.TotalLend)
	}
	if !data.TotalBorrow.Equal(decimal.NewFromInt(40)) || data.TotalP2PDeals != 2 {
		t.Errorf("unexpected aggregate after borrow: %+v", data)
	}

	// 3. A cancellation unwinds with negative deltas.
	data, err = service.ApplyDelta(ctx, models.ProtocolDeltaRequest{
		TotalLend:     decimal.NewFromInt(-100),
		TotalP2PDeals: -1,
	})
	if err != nil {
		t.Fatalf("ApplyDelta failed: %v", err)
	}
	if !data.TotalLend.IsZero() || data.TotalP2PDeals != 1 {
		t.Errorf("unexpected aggregate after cancel: %+v", data)
	}

	// The stored row matches the returned snapshot.
	stored, err := service.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if !stored.TotalBorrow.Equal(data.TotalBorrow) || stored.TotalP2PDeals != data.TotalP2PDeals {
		t.Errorf("stored row diverges from returned snapshot: %+v vs %+v", stored, data)
	}
}
