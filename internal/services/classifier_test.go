package services

import (
	"testing"

	"peerlend/internal/models"
)

const (
	strkAddress = "0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d"
	ethAddress  = "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"
)

func testTokenTable(t *testing.T) *TokenTable {
	t.Helper()
	tokens, err := NewTokenTable(map[string]string{
		"STRK": strkAddress,
		"ETH":  ethAddress,
	})
	if err != nil {
		t.Fatalf("NewTokenTable failed: %v", err)
	}
	return tokens
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name      string
		cancelled bool
		accepted  bool
		repaid    bool
		want      models.ProposalStatus
	}{
		{"pending", false, false, false, models.StatusPending},
		{"ongoing", false, true, false, models.StatusOngoing},
		{"completed", false, true, true, models.StatusCompleted},
		{"cancelled", true, false, false, models.StatusCancelled},
		// Cancellation wins even over an accepted proposal.
		{"cancelled after accept", true, true, false, models.StatusCancelled},
		{"cancelled after repay", true, true, true, models.StatusCancelled},
		// Repaid without ever being accepted cannot happen on-chain.
		{"repaid without accept", false, false, true, models.StatusUnknown},
	}

	for _, tc := range cases {
		p := models.Proposal{
			IsCancelled: tc.cancelled,
			IsAccepted:  tc.accepted,
			IsRepaid:    tc.repaid,
		}
		if got := StatusOf(p); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestClassifyOwnership(t *testing.T) {
	tokens := testTokenTable(t)

	p := models.Proposal{
		ID:       "0xa",
		Category: models.CategoryLending,
		Token:    strkAddress,
		Lender:   "0x0abc",
		Borrower: "0x0",
	}

	// Mixed case and missing padding still identify the same account.
	c, err := Classify(p, "0xABC", tokens)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !c.IsOwner {
		t.Error("expected 0xABC to own a proposal lent by 0x0abc")
	}
	if c.CounterpartyLabel != "Me" {
		t.Errorf("expected label Me, got %q", c.CounterpartyLabel)
	}
	if c.TokenSymbol != "STRK" {
		t.Errorf("expected token symbol STRK, got %q", c.TokenSymbol)
	}
	if c.Status != models.StatusPending {
		t.Errorf("expected status Pending, got %s", c.Status)
	}

	// A different viewer sees a shortened address, never the raw felt.
	c, err = Classify(p, "0xdef", tokens)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if c.IsOwner {
		t.Error("expected 0xdef not to own the proposal")
	}
	if c.CounterpartyLabel == "Me" || len(c.CounterpartyLabel) != 7 {
		t.Errorf("expected shortened label, got %q", c.CounterpartyLabel)
	}
}

func TestClassifyBorrowingParty(t *testing.T) {
	tokens := testTokenTable(t)

	// On a borrowing proposal the displayed party is the borrower, so the
	// lender field being someone else must not affect ownership.
	p := models.Proposal{
		ID:       "0xb",
		Category: models.CategoryBorrowing,
		Token:    ethAddress,
		Lender:   "0x111",
		Borrower: "0x222",
	}

	c, err := Classify(p, "0x222", tokens)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !c.IsOwner {
		t.Error("expected borrower to own a borrowing proposal")
	}

	c, err = Classify(p, "0x111", tokens)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if c.IsOwner {
		t.Error("lender must not own a borrowing proposal")
	}
}

func TestTokenTableUnknownAddress(t *testing.T) {
	tokens := testTokenTable(t)

	if got := tokens.Symbol("0x999"); got != UnknownSymbol {
		t.Errorf("expected %q for unmapped address, got %q", UnknownSymbol, got)
	}
	if got := tokens.Symbol("not-an-address"); got != UnknownSymbol {
		t.Errorf("expected %q for malformed address, got %q", UnknownSymbol, got)
	}

	addr, ok := tokens.Address("STRK")
	if !ok {
		t.Fatal("expected STRK to resolve")
	}
	if len(addr) != 66 {
		t.Errorf("expected normalized 66-char address, got %q", addr)
	}
}
