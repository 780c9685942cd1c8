package ledger

import (
	"context"
	"fmt"

	interfaces "github.com/sheikh-saqib/multi-store-cash-ledger/internal/interfaces"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ComputeView filters txs down to one store and folds them into a balance.
// The relative order of txs is kept, so a newest-first input gives a
// newest-first view. It never mutates txs and never re-rounds amounts.
func ComputeView(txs []models.Transaction, storeID string) models.LedgerView {
	view := models.LedgerView{
		StoreID:      storeID,
		Transactions: []models.Transaction{},
		Balance:      decimal.Zero,
	}

	for _, tx := range txs {
		if tx.StoreID != storeID {
			continue
		}
		view.Transactions = append(view.Transactions, tx)
		view.Balance = view.Balance.Add(tx.SignedAmount())
	}
	return view
}

// Ledger derives views from the transaction repository. Nothing is cached;
// every call reloads.
type Ledger struct {
	store interfaces.TransactionRepository
}

// NewLedger creates a ledger over the given repository.
func NewLedger(store interfaces.TransactionRepository) *Ledger {
	return &Ledger{
		store: store,
	}
}

func (l *Ledger) View(ctx context.Context, storeID string) (models.LedgerView, error) {
	txs, err := l.store.Load(ctx)
	if err != nil {
		return models.LedgerView{}, fmt.Errorf("ledger view %s: %w", storeID, err)
	}
	return ComputeView(txs, storeID), nil
}

func (l *Ledger) GetBalance(ctx context.Context, storeID string) (decimal.Decimal, error) {
	view, err := l.View(ctx, storeID)
	if err != nil {
		return decimal.Zero, err
	}
	return view.Balance, nil
}

// Balances returns the balance of every given store, in the given order,
// from a single load.
func (l *Ledger) Balances(ctx context.Context, stores []models.Store) ([]models.StoreBalance, error) {
	txs, err := l.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger balances: %w", err)
	}

	out := make([]models.StoreBalance, 0, len(stores))
	for _, s := range stores {
		out = append(out, models.StoreBalance{
			Store:   s,
			Balance: ComputeView(txs, s.ID).Balance,
		})
	}
	return out, nil
}
