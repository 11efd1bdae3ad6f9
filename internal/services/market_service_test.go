package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"peerlend/internal/models"
)

type fakeFeed struct {
	lending   []models.Proposal
	borrowing []models.Proposal
	err       error
}

func (f *fakeFeed) LendingProposals(ctx context.Context) ([]models.Proposal, error) {
	return f.lending, f.err
}

func (f *fakeFeed) BorrowProposals(ctx context.Context) ([]models.Proposal, error) {
	return f.borrowing, f.err
}

func openProposal(id string, category models.ProposalCategory, token string, amount float64) models.Proposal {
	return models.Proposal{
		ID:       id,
		Category: category,
		Token:    token,
		Amount:   decimal.NewFromFloat(amount),
		Lender:   "0x111",
		Borrower: "0x222",
	}
}

func TestMergeAndFilterExcludesClosedProposals(t *testing.T) {
	tokens := testTokenTable(t)

	cancelled := openProposal("0x3", models.CategoryLending, strkAddress, 100)
	cancelled.IsCancelled = true
	accepted := openProposal("0x5", models.CategoryBorrowing, ethAddress, 50)
	accepted.IsAccepted = true

	lending := []models.Proposal{
		openProposal("0x1", models.CategoryLending, strkAddress, 100),
		openProposal("0x2", models.CategoryLending, ethAddress, 200),
		cancelled,
	}
	borrowing := []models.Proposal{
		openProposal("0x4", models.CategoryBorrowing, strkAddress, 300),
		accepted,
	}

	got := MergeAndFilter(lending, borrowing, models.FilterState{}, tokens)
	if len(got) != 3 {
		t.Fatalf("expected 3 open proposals, got %d", len(got))
	}

	// Lending feed first, then borrowing, both in feed order.
	wantOrder := []string{"0x1", "0x2", "0x4"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestMergeAndFilterOptions(t *testing.T) {
	tokens := testTokenTable(t)

	lending := []models.Proposal{
		openProposal("0x1", models.CategoryLending, strkAddress, 100),
		openProposal("0x2", models.CategoryLending, ethAddress, 250),
	}
	lending[1].InterestRate = 12
	lending[1].Duration = 30

	// Token filter is case-insensitive on the symbol.
	got := MergeAndFilter(lending, nil, models.FilterState{Option: models.FilterToken, Value: "strk"}, tokens)
	if len(got) != 1 || got[0].ID != "0x1" {
		t.Fatalf("token filter: expected [0x1], got %v", ids(got))
	}

	got = MergeAndFilter(lending, nil, models.FilterState{Option: models.FilterAmount, Value: "250"}, tokens)
	if len(got) != 1 || got[0].ID != "0x2" {
		t.Fatalf("amount filter: expected [0x2], got %v", ids(got))
	}

	got = MergeAndFilter(lending, nil, models.FilterState{Option: models.FilterInterestRate, Value: "12"}, tokens)
	if len(got) != 1 || got[0].ID != "0x2" {
		t.Fatalf("interest filter: expected [0x2], got %v", ids(got))
	}

	got = MergeAndFilter(lending, nil, models.FilterState{Option: models.FilterDuration, Value: "30"}, tokens)
	if len(got) != 1 || got[0].ID != "0x2" {
		t.Fatalf("duration filter: expected [0x2], got %v", ids(got))
	}

	// Unparseable numeric value matches nothing.
	got = MergeAndFilter(lending, nil, models.FilterState{Option: models.FilterAmount, Value: "abc"}, tokens)
	if len(got) != 0 {
		t.Fatalf("bad numeric value: expected empty, got %v", ids(got))
	}

	// Empty value means no filter at all.
	got = MergeAndFilter(lending, nil, models.FilterState{Option: models.FilterAmount, Value: ""}, tokens)
	if len(got) != 2 {
		t.Fatalf("empty value: expected 2, got %d", len(got))
	}

	// Unrecognized option matches everything.
	got = MergeAndFilter(lending, nil, models.FilterState{Option: "color", Value: "red"}, tokens)
	if len(got) != 2 {
		t.Fatalf("unknown option: expected 2, got %d", len(got))
	}
}

func TestRefreshKeepsSnapshotOnFailure(t *testing.T) {
	tokens := testTokenTable(t)

	feed := &fakeFeed{
		lending:   []models.Proposal{openProposal("0x1", models.CategoryLending, strkAddress, 100)},
		borrowing: []models.Proposal{openProposal("0x2", models.CategoryBorrowing, ethAddress, 50)},
	}
	svc := NewMarketService(feed, tokens, 5)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	feed.err = errors.New("rpc down")
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected Refresh to fail")
	}

	lending, borrowing := svc.Snapshot()
	if len(lending) != 1 || len(borrowing) != 1 {
		t.Errorf("expected prior snapshot to survive, got %d lending %d borrowing",
			len(lending), len(borrowing))
	}
}

func TestViewPaginatesAndClassifies(t *testing.T) {
	tokens := testTokenTable(t)

	var lending []models.Proposal
	for i := 0; i < 12; i++ {
		lending = append(lending, openProposal(fmt.Sprintf("0x%x", i+1), models.CategoryLending, strkAddress, 100))
	}
	feed := &fakeFeed{lending: lending}
	svc := NewMarketService(feed, tokens, 5)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	page, err := svc.View("0x111", models.FilterState{}, 0)
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if page.Page != 1 || page.TotalPages != 3 || page.TotalItems != 12 {
		t.Fatalf("expected page 1/3 of 12, got %d/%d of %d", page.Page, page.TotalPages, page.TotalItems)
	}
	if len(page.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(page.Items))
	}
	if !page.Items[0].IsOwner {
		t.Error("expected lender 0x111 to own its proposals")
	}

	// Out-of-range request clamps to the last page.
	page, err = svc.View("0x111", models.FilterState{}, 99)
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if page.Page != 3 || len(page.Items) != 2 {
		t.Fatalf("expected clamped page 3 with 2 items, got page %d with %d", page.Page, len(page.Items))
	}

	// Shrinking the set changes its identity, so the page resets to 1
	// instead of rendering an empty table.
	feed.lending = lending[:4]
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	page, err = svc.View("0x111", models.FilterState{}, 0)
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if page.Page != 1 || page.TotalPages != 1 || len(page.Items) != 4 {
		t.Fatalf("expected reset to page 1/1 with 4 items, got %d/%d with %d",
			page.Page, page.TotalPages, len(page.Items))
	}
}

func ids(proposals []models.Proposal) []string {
	out := make([]string, 0, len(proposals))
	for _, p := range proposals {
		out = append(out, p.ID)
	}
	return out
}
