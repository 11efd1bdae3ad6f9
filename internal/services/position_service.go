package services

import (
	"sort"
	"time"

	"peerlend/internal/felt"
	"peerlend/internal/models"
)

// PositionService serves the positions screen: every proposal the user is a
// party to, grouped by the calendar month it was created in.
type PositionService struct {
	market *MarketService
	tokens *TokenTable
}

// NewPositionService creates a new PositionService
func NewPositionService(market *MarketService, tokens *TokenTable) *PositionService {
	return &PositionService{market: market, tokens: tokens}
}

// Positions aggregates the current snapshot for one user.
func (s *PositionService) Positions(userAddress string) ([]models.GroupedPosition, error) {
	lending, borrowing := s.market.Snapshot()
	all := append(lending, borrowing...)
	return AggregatePositions(all, userAddress, s.tokens)
}

// AggregatePositions keeps the proposals where the user is lender or
// borrower, formats each with its derived status and month key, groups by
// month preserving feed order within a group, and orders groups most recent
// first by the actual (year, month) they represent.
func AggregatePositions(all []models.Proposal, userAddress string, tokens *TokenTable) ([]models.GroupedPosition, error) {
	user, err := felt.Normalize(userAddress)
	if err != nil {
		return nil, err
	}

	type groupKey struct {
		year  int
		month time.Month
	}

	groupIndex := make(map[groupKey]int)
	var keys []groupKey
	var groups []models.GroupedPosition

	for _, p := range all {
		lender, err := felt.Normalize(felt.ToHex(p.Lender))
		if err != nil {
			continue
		}
		borrower, err := felt.Normalize(felt.ToHex(p.Borrower))
		if err != nil {
			continue
		}
		if lender != user && borrower != user {
			continue
		}

		classified, err := Classify(p, user, tokens)
		if err != nil {
			return nil, err
		}

		created := time.Unix(p.CreatedAt, 0).UTC()
		key := groupKey{year: created.Year(), month: created.Month()}
		monthLabel := created.Format("Jan 2006")

		idx, ok := groupIndex[key]
		if !ok {
			idx = len(groups)
			groupIndex[key] = idx
			keys = append(keys, key)
			groups = append(groups, models.GroupedPosition{Month: monthLabel})
		}

		groups[idx].Data = append(groups[idx].Data, models.FormattedPosition{
			ProposalID:   p.ID,
			Category:     p.Category,
			TokenSymbol:  classified.TokenSymbol,
			Amount:       p.Amount,
			InterestRate: p.InterestRate,
			Duration:     p.Duration,
			Counterparty: classified.CounterpartyLabel,
			Status:       classified.Status,
			CreatedAt:    p.CreatedAt,
			Month:        monthLabel,
		})
	}

	// Sort by the parsed (year, month), not the label: string-sorting month
	// abbreviations would interleave years.
	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := keys[order[a]], keys[order[b]]
		if ka.year != kb.year {
			return ka.year > kb.year
		}
		return ka.month > kb.month
	})

	sorted := make([]models.GroupedPosition, 0, len(groups))
	for _, idx := range order {
		sorted = append(sorted, groups[idx])
	}
	return sorted, nil
}
