package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProtocolData is the singleton running-totals record for the whole protocol.
// Updates are additive deltas, never absolute writes.
type ProtocolData struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	TotalBorrow         decimal.Decimal `gorm:"type:decimal(30,8);not null;default:0" json:"total_borrow"`
	TotalLend           decimal.Decimal `gorm:"type:decimal(30,8);not null;default:0" json:"total_lend"`
	TotalP2PDeals       int64           `gorm:"not null;default:0" json:"total_p2p_deals"`
	TotalInterestEarned decimal.Decimal `gorm:"type:decimal(30,8);not null;default:0" json:"total_interest_earned"`
	TotalValueLocked    decimal.Decimal `gorm:"type:decimal(30,8);not null;default:0" json:"total_value_locked"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TableName specifies the table name for ProtocolData model
func (ProtocolData) TableName() string {
	return "protocol_data"
}

// ProtocolDeltaRequest is an additive update to the aggregate record.
// Negative deltas unwind a cancelled proposal's contribution.
type ProtocolDeltaRequest struct {
	TotalBorrow         decimal.Decimal `json:"total_borrow"`
	TotalLend           decimal.Decimal `json:"total_lend"`
	TotalP2PDeals       int64           `json:"total_p2p_deals"`
	TotalInterestEarned decimal.Decimal `json:"total_interest_earned"`
	TotalValueLocked    decimal.Decimal `json:"total_value_locked"`
}
