package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecorded is published after a transaction has been appended
// to the store's ledger.
type TransactionRecorded struct {
	TransactionID string          `json:"transaction_id"`
	StoreID       string          `json:"store_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	EmployeeName  string          `json:"employee_name"`
	CreatedBy     string          `json:"created_by"`
	StoreBalance  decimal.Decimal `json:"store_balance"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
