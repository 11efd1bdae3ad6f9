package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"peerlend/internal/models"
)

// MarketService owns the in-memory mirror of both proposal feeds and serves
// the merged, filtered, paginated market views. A refresh replaces the
// snapshot wholesale; consumers never see a partial update.
type MarketService struct {
	chain  FeedReader
	tokens *TokenTable

	mu        sync.RWMutex
	lending   []models.Proposal
	borrowing []models.Proposal

	pageSize int

	pagersMu sync.Mutex
	pagers   map[string]*Pager // keyed by viewer address
}

// FeedReader is the read side of the chain client.
type FeedReader interface {
	LendingProposals(ctx context.Context) ([]models.Proposal, error)
	BorrowProposals(ctx context.Context) ([]models.Proposal, error)
}

// NewMarketService creates a new MarketService
func NewMarketService(chain FeedReader, tokens *TokenTable, pageSize int) *MarketService {
	return &MarketService{
		chain:    chain,
		tokens:   tokens,
		pageSize: pageSize,
		pagers:   make(map[string]*Pager),
	}
}

// Refresh pulls both feeds and replaces the snapshot. On any failure the
// prior snapshot stays in place.
func (s *MarketService) Refresh(ctx context.Context) error {
	lending, err := s.chain.LendingProposals(ctx)
	if err != nil {
		return fmt.Errorf("lending feed: %w", err)
	}
	borrowing, err := s.chain.BorrowProposals(ctx)
	if err != nil {
		return fmt.Errorf("borrowing feed: %w", err)
	}

	s.mu.Lock()
	s.lending = lending
	s.borrowing = borrowing
	s.mu.Unlock()

	log.Printf("[Market] Snapshot refreshed: %d lending, %d borrowing", len(lending), len(borrowing))
	return nil
}

// Snapshot returns copies of both feeds, lending first.
func (s *MarketService) Snapshot() (lending, borrowing []models.Proposal) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lending = append([]models.Proposal(nil), s.lending...)
	borrowing = append([]models.Proposal(nil), s.borrowing...)
	return lending, borrowing
}

// MarketPage is one page of the open-market view.
type MarketPage struct {
	Items      []models.ClassifiedProposal `json:"items"`
	Page       int                         `json:"page"`
	TotalPages int                         `json:"total_pages"`
	TotalItems int                         `json:"total_items"`
}

// View serves the open-market view for one user: merge, exclude, filter,
// classify, paginate. requestedPage <= 0 keeps the user's current page;
// a change in the filtered set's identity resets it to 1.
func (s *MarketService) View(userAddress string, filter models.FilterState, requestedPage int) (MarketPage, error) {
	lending, borrowing := s.Snapshot()
	filtered := MergeAndFilter(lending, borrowing, filter, s.tokens)

	pager := s.pagerFor(userAddress)
	if requestedPage > 0 {
		pager.SetPage(requestedPage)
	}
	pageItems, page, totalPages := pager.Page(filtered)

	classified := make([]models.ClassifiedProposal, 0, len(pageItems))
	for _, p := range pageItems {
		c, err := Classify(p, userAddress, s.tokens)
		if err != nil {
			return MarketPage{}, err
		}
		classified = append(classified, c)
	}

	return MarketPage{
		Items:      classified,
		Page:       page,
		TotalPages: totalPages,
		TotalItems: len(filtered),
	}, nil
}

func (s *MarketService) pagerFor(userAddress string) *Pager {
	s.pagersMu.Lock()
	defer s.pagersMu.Unlock()
	pager, ok := s.pagers[userAddress]
	if !ok {
		pager = NewPager(s.pageSize)
		s.pagers[userAddress] = pager
	}
	return pager
}

// MergeAndFilter concatenates both feeds (lending first), drops every
// cancelled or accepted proposal unconditionally, then applies the user
// filter. Pure: equal inputs give equal outputs.
func MergeAndFilter(lending, borrowing []models.Proposal, filter models.FilterState, tokens *TokenTable) []models.Proposal {
	merged := make([]models.Proposal, 0, len(lending)+len(borrowing))
	merged = append(merged, lending...)
	merged = append(merged, borrowing...)

	open := merged[:0:0]
	for _, p := range merged {
		if p.IsCancelled || p.IsAccepted {
			continue
		}
		open = append(open, p)
	}

	if filter.Value == "" {
		return open
	}

	out := open[:0:0]
	for _, p := range open {
		if matchesFilter(p, filter, tokens) {
			out = append(out, p)
		}
	}
	return out
}

// matchesFilter dispatches on the filter option. Numeric options fail closed:
// an unparseable value matches nothing. Unrecognized options match everything.
func matchesFilter(p models.Proposal, filter models.FilterState, tokens *TokenTable) bool {
	switch filter.Option {
	case models.FilterToken:
		return strings.EqualFold(tokens.Symbol(p.Token), filter.Value)
	case models.FilterAmount:
		want, err := strconv.ParseFloat(filter.Value, 64)
		if err != nil {
			return false
		}
		return p.Amount.Equal(decimal.NewFromFloat(want))
	case models.FilterInterestRate:
		want, err := strconv.ParseFloat(filter.Value, 64)
		if err != nil {
			return false
		}
		return float64(p.InterestRate) == want
	case models.FilterDuration:
		want, err := strconv.ParseFloat(filter.Value, 64)
		if err != nil {
			return false
		}
		return float64(p.Duration) == want
	default:
		return true
	}
}
