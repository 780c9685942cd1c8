package models

import "github.com/shopspring/decimal"

// LedgerView is the derived, read-only picture of one store's ledger
type LedgerView struct {
	StoreID      string          `json:"storeId"`
	Transactions []Transaction   `json:"transactions"` // newest first
	Balance      decimal.Decimal `json:"balance"`
}

// StoreBalance pairs a store with its derived balance.
type StoreBalance struct {
	Store   Store           `json:"store"`
	Balance decimal.Decimal `json:"balance"`
}
