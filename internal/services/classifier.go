package services

import (
	"fmt"

	"peerlend/internal/felt"
	"peerlend/internal/models"
)

// UnknownSymbol is reported for token addresses outside the symbol table.
const UnknownSymbol = "Unknown"

// TokenTable maps canonical token addresses to display symbols.
type TokenTable struct {
	symbolByAddress map[string]string
	addressBySymbol map[string]string
}

// NewTokenTable builds a token table from symbol -> address pairs, e.g.
// {"STRK": <addr>, "ETH": <addr>}. Addresses are normalized once here so
// lookups are plain map hits.
func NewTokenTable(addressBySymbol map[string]string) (*TokenTable, error) {
	t := &TokenTable{
		symbolByAddress: make(map[string]string, len(addressBySymbol)),
		addressBySymbol: make(map[string]string, len(addressBySymbol)),
	}
	for symbol, address := range addressBySymbol {
		normalized, err := felt.Normalize(address)
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", symbol, err)
		}
		t.symbolByAddress[normalized] = symbol
		t.addressBySymbol[symbol] = normalized
	}
	return t, nil
}

// Symbol resolves a token address to its display symbol.
func (t *TokenTable) Symbol(tokenAddress string) string {
	normalized, err := felt.Normalize(felt.ToHex(tokenAddress))
	if err != nil {
		return UnknownSymbol
	}
	if symbol, ok := t.symbolByAddress[normalized]; ok {
		return symbol
	}
	return UnknownSymbol
}

// Address resolves a display symbol back to its normalized token address.
func (t *TokenTable) Address(symbol string) (string, bool) {
	address, ok := t.addressBySymbol[symbol]
	return address, ok
}

// Classify derives the per-user view of one proposal: ownership, the
// counterparty display label, the token symbol and the lifecycle status.
// Pure function of its inputs.
func Classify(p models.Proposal, currentUserAddress string, tokens *TokenTable) (models.ClassifiedProposal, error) {
	user, err := felt.Normalize(currentUserAddress)
	if err != nil {
		return models.ClassifiedProposal{}, err
	}

	// The displayed party is the proposal's own side: the lender on a
	// lending proposal, the borrower on a borrowing one.
	party := p.Lender
	if p.Category == models.CategoryBorrowing {
		party = p.Borrower
	}
	partyNorm, err := felt.Normalize(felt.ToHex(party))
	if err != nil {
		return models.ClassifiedProposal{}, err
	}

	isOwner := partyNorm == user
	label := "Me"
	if !isOwner {
		label = felt.Shorten(partyNorm)
	}

	return models.ClassifiedProposal{
		Proposal:          p,
		IsOwner:           isOwner,
		CounterpartyLabel: label,
		TokenSymbol:       tokens.Symbol(p.Token),
		Status:            StatusOf(p),
	}, nil
}

// StatusOf derives the lifecycle status from the on-chain flags. Evaluated
// in precedence order; cancellation wins over everything. Flag combinations
// the contract should never produce report StatusUnknown rather than a
// guessed status.
func StatusOf(p models.Proposal) models.ProposalStatus {
	switch {
	case p.IsCancelled:
		return models.StatusCancelled
	case !p.IsAccepted && !p.IsRepaid:
		return models.StatusPending
	case p.IsAccepted && !p.IsRepaid:
		return models.StatusOngoing
	case p.IsAccepted && p.IsRepaid:
		return models.StatusCompleted
	default:
		// Repaid without ever being accepted.
		return models.StatusUnknown
	}
}
