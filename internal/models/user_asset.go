package models

import (
	"github.com/shopspring/decimal"
)

// UserAsset mirrors one per-token asset record from the contract's
// get_user_assets view.
type UserAsset struct {
	TokenAddress     string          `json:"token_address"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	TotalLent        decimal.Decimal `json:"total_lent"`
	TotalBorrowed    decimal.Decimal `json:"total_borrowed"`
	InterestEarned   decimal.Decimal `json:"interest_earned"`
}

// UserAssetOverview aggregates a user's per-token records for the profile
// dashboard. Recomputed on every refresh, never stored.
type UserAssetOverview struct {
	AvailableBalance decimal.Decimal `json:"available_balance"`
	TotalLent        decimal.Decimal `json:"total_lent"`
	TotalBorrowed    decimal.Decimal `json:"total_borrowed"`
	InterestEarned   decimal.Decimal `json:"interest_earned"`
}

// Overview sums the per-token records into one aggregate.
func Overview(assets []UserAsset) UserAssetOverview {
	var o UserAssetOverview
	for _, a := range assets {
		o.AvailableBalance = o.AvailableBalance.Add(a.AvailableBalance)
		o.TotalLent = o.TotalLent.Add(a.TotalLent)
		o.TotalBorrowed = o.TotalBorrowed.Add(a.TotalBorrowed)
		o.InterestEarned = o.InterestEarned.Add(a.InterestEarned)
	}
	return o
}
