package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types recorded to the ledger. Only these four can be charted;
// anything else is dropped by the activity aggregation.
const (
	TxTypeDeposit  = "deposit"
	TxTypeWithdraw = "withdraw"
	TxTypeBorrow   = "borrow"
	TxTypeLend     = "lend"
)

// Transaction represents one entry in the per-user transaction ledger
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserAddress string          `gorm:"size:66;not null;index" json:"user_address"`
	Token       string          `gorm:"size:20;not null" json:"token"` // symbol, e.g. STRK
	Amount      decimal.Decimal `gorm:"type:decimal(30,8);not null" json:"amount"`
	Type        string          `gorm:"size:50;not null;index" json:"transaction_type"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// RecordTransactionRequest represents the request to append a ledger entry
type RecordTransactionRequest struct {
	UserAddress string          `json:"user_address" binding:"required"`
	Token       string          `json:"token" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Type        string          `json:"transaction_type" binding:"required"`
}

// ActivityGranularity selects the bucket width for the activity chart.
type ActivityGranularity string

const (
	GranularityDay   ActivityGranularity = "day"
	GranularityWeek  ActivityGranularity = "week"
	GranularityMonth ActivityGranularity = "month"
)

// ChartPoint is one bucket of the activity chart, with an independent counter
// per transaction type.
type ChartPoint struct {
	Bucket   string `json:"bucket"`
	Deposit  int    `json:"deposit"`
	Withdraw int    `json:"withdraw"`
	Borrow   int    `json:"borrow"`
	Lend     int    `json:"lend"`
}
