// Package storage persists the transaction collection as a single blob in a
// KV store. Every append reads the whole collection, prepends and writes the
// whole collection back; concurrent writers in other processes are last
// write wins.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	interfaces "github.com/sheikh-saqib/multi-store-cash-ledger/internal/interfaces"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// Blob keys.
const (
	KeyUser         = "user"
	KeyTransactions = "transactions"
	KeySeeded       = "seeded"
	KeyLastStore    = "lastStore"
)

// BlobRepository implements interfaces.TransactionRepository on top of a
// whole-value KV store.
type BlobRepository struct {
	kv interfaces.KVStore
}

func NewBlobRepository(kv interfaces.KVStore) *BlobRepository {
	return &BlobRepository{kv: kv}
}

// Load returns all transactions, newest first. A never-written collection is
// empty.
func (r *BlobRepository) Load(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if _, err := ReadJSON(ctx, r.kv, KeyTransactions, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

// Append prepends tx to the collection and rewrites it.
func (r *BlobRepository) Append(ctx context.Context, tx models.Transaction) error {
	txs, err := r.Load(ctx)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}

	next := make([]models.Transaction, 0, len(txs)+1)
	next = append(next, tx)
	next = append(next, txs...)

	if err := WriteJSON(ctx, r.kv, KeyTransactions, next); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}

// SeedOnce writes one opening-float ADD per store the first time it runs
// against a given KV store and records the seeded marker. Later calls are
// no-ops, even if the transaction collection has since been emptied.
// It reports whether seeding happened.
func (r *BlobRepository) SeedOnce(ctx context.Context, stores []models.Store, openingFloat decimal.Decimal, now time.Time, newID func() string) (bool, error) {
	var seeded bool
	if _, err := ReadJSON(ctx, r.kv, KeySeeded, &seeded); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if seeded {
		return false, nil
	}

	txs, err := r.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	// Transactions are written before the marker. If an earlier run died
	// between the two writes, only the marker is missing.
	for _, tx := range txs {
		if tx.CreatedBy == models.SeedSubmitter {
			if err := WriteJSON(ctx, r.kv, KeySeeded, true); err != nil {
				return false, fmt.Errorf("seed: %w", err)
			}
			return false, nil
		}
	}

	opening := make([]models.Transaction, 0, len(stores)+len(txs))
	for _, s := range stores {
		opening = append(opening, models.Transaction{
			ID:           newID(),
			StoreID:      s.ID,
			Type:         models.TransactionAdd,
			Amount:       openingFloat.Round(2),
			Comment:      "Opening float",
			EmployeeName: models.SeedEmployee,
			CreatedBy:    models.SeedSubmitter,
			CreatedAt:    now,
		})
	}
	opening = append(opening, txs...)

	if err := WriteJSON(ctx, r.kv, KeyTransactions, opening); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if err := WriteJSON(ctx, r.kv, KeySeeded, true); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	return true, nil
}

// ReadJSON decodes the blob under key into dst. It reports false, leaving dst
// untouched, when the key was never written.
func ReadJSON(ctx context.Context, kv interfaces.KVStore, key string, dst any) (bool, error) {
	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// WriteJSON replaces the blob under key with the JSON encoding of v.
func WriteJSON(ctx context.Context, kv interfaces.KVStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

var _ interfaces.TransactionRepository = (*BlobRepository)(nil)
