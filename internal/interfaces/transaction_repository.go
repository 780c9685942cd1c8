package interfaces

import (
	"context"

	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
)

// TransactionRepository is the durable, append-only transaction collection.
// Load returns transactions newest first.
type TransactionRepository interface {
	Load(ctx context.Context) ([]models.Transaction, error)
	Append(ctx context.Context, tx models.Transaction) error
}
