package models

import (
	"github.com/shopspring/decimal"
)

// FormattedPosition is one row of the positions screen: a proposal the user
// participates in, rendered with its derived status and month key.
type FormattedPosition struct {
	ProposalID   string           `json:"proposal_id"`
	Category     ProposalCategory `json:"category"`
	TokenSymbol  string           `json:"token_symbol"`
	Amount       decimal.Decimal  `json:"amount"`
	InterestRate uint64           `json:"interest_rate"`
	Duration     uint64           `json:"duration"`
	Counterparty string           `json:"counterparty"`
	Status       ProposalStatus   `json:"status"`
	CreatedAt    int64            `json:"created_at"`
	Month        string           `json:"month"` // "Jan 2024"
}

// GroupedPosition is one calendar-month group of positions, most recent
// groups first.
type GroupedPosition struct {
	Month string              `json:"month"`
	Data  []FormattedPosition `json:"data"`
}
