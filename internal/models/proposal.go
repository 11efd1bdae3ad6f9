package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ProposalCategory identifies which on-chain feed a proposal came from.
type ProposalCategory string

const (
	CategoryLending   ProposalCategory = "LENDING"
	CategoryBorrowing ProposalCategory = "BORROWING"
)

// ProposalStatus is the lifecycle status derived from the on-chain flags.
type ProposalStatus string

const (
	StatusPending   ProposalStatus = "Pending"
	StatusOngoing   ProposalStatus = "Ongoing"
	StatusCompleted ProposalStatus = "Completed"
	StatusCancelled ProposalStatus = "Cancelled"
	// StatusUnknown flags flag combinations the contract should never
	// produce, e.g. repaid without being accepted. Rendered visibly
	// rather than guessed at.
	StatusUnknown ProposalStatus = "Unknown"
)

// Proposal mirrors one on-chain proposal record. The chain owns these fields;
// this service only reflects them and never mutates them locally.
type Proposal struct {
	ID              string           `json:"id"` // canonical hex
	Category        ProposalCategory `json:"category"`
	Token           string           `json:"token"`
	CollateralToken string           `json:"collateral_token"`
	TokenAmount     decimal.Decimal  `json:"token_amount"` // base units, 18 decimals
	Amount          decimal.Decimal  `json:"amount"`       // USD notional
	InterestRate    uint64           `json:"interest_rate"`
	Duration        uint64           `json:"duration"` // days
	Lender          string           `json:"lender"`
	Borrower        string           `json:"borrower"`
	CreatedAt       int64            `json:"created_at"` // unix seconds
	RepaymentDate   int64            `json:"repayment_date"`
	IsCancelled     bool             `json:"is_cancelled"`
	IsAccepted      bool             `json:"is_accepted"`
	IsRepaid        bool             `json:"is_repaid"`
	AmountRepaid    decimal.Decimal  `json:"amount_repaid"`
}

// ClassifiedProposal is a proposal plus the fields derived for the current
// session's user. Status is derived exactly once here; nothing downstream
// re-reads the raw boolean flags.
type ClassifiedProposal struct {
	Proposal
	IsOwner           bool           `json:"is_owner"`
	CounterpartyLabel string         `json:"counterparty_label"`
	TokenSymbol       string         `json:"token_symbol"`
	Status            ProposalStatus `json:"status"`
}

// FilterOption selects which proposal field a market filter matches against.
type FilterOption string

const (
	FilterToken        FilterOption = "token"
	FilterAmount       FilterOption = "amount"
	FilterInterestRate FilterOption = "interestRate"
	FilterDuration     FilterOption = "duration"
)

// FilterState is the user's active market filter. Ephemeral, never persisted.
type FilterState struct {
	Option FilterOption `json:"filter_option" form:"filter_option"`
	Value  string       `json:"filter_value" form:"filter_value"`
}

// ActionKind names the contract entrypoints a user can invoke.
type ActionKind string

const (
	ActionAccept        ActionKind = "accept"
	ActionCancel        ActionKind = "cancel"
	ActionRepay         ActionKind = "repay"
	ActionCreateLending ActionKind = "createLendingProposal"
	ActionCreateBorrow  ActionKind = "createBorrowProposal"
	ActionCreateCounter ActionKind = "createCounterProposal"
)

// ActionRequest is a user request to invoke a contract action, possibly
// subject to the collateral gate. Invoke carries the wallet-signed
// transaction payload; it is opaque to this service and relayed as-is.
type ActionRequest struct {
	Kind       ActionKind       `json:"kind" binding:"required"`
	ProposalID string           `json:"proposal_id"`
	Category   ProposalCategory `json:"category"` // market the action targets
	Token      string           `json:"token"`
	Amount     decimal.Decimal  `json:"amount"` // USD notional
	Interest   uint64           `json:"interest_rate"`
	Duration   uint64           `json:"duration"`
	Invoke     json.RawMessage  `json:"invoke" binding:"required"`
}

// DepositRequest is the two-step approve+deposit call, signed by the wallet.
type DepositRequest struct {
	Token  string          `json:"token"` // symbol, e.g. STRK
	Amount decimal.Decimal `json:"amount"`
	Invoke json.RawMessage `json:"invoke" binding:"required"`
}
