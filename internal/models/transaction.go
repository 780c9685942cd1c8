package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a cash movement
type TransactionType string

const (
	TransactionAdd      TransactionType = "ADD"
	TransactionWithdraw TransactionType = "WITHDRAW"
)

// Valid reports whether t is one of the known directions.
func (t TransactionType) Valid() bool {
	return t == TransactionAdd || t == TransactionWithdraw
}

// SeedSubmitter is the CreatedBy value of opening-float transactions.
const SeedSubmitter = "seed"

// SeedEmployee is the EmployeeName of opening-float transactions.
const SeedEmployee = "System"

// Transaction represents a single cash addition or withdrawal for one store.
// Amount is always positive; direction is carried by Type.
type Transaction struct {
	ID           string          `json:"id"`
	StoreID      string          `json:"storeId"`
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Comment      string          `json:"comment"`
	EmployeeName string          `json:"employeeName"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// SignedAmount returns the amount as it contributes to the store balance:
// positive for ADD, negative for WITHDRAW.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionWithdraw {
		return t.Amount.Neg()
	}
	return t.Amount
}
