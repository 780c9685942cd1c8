package session

import (
	"context"
	"fmt"

	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/interfaces"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/storage"
)

// Persistence keeps the "user" and "lastStore" blobs.
type Persistence struct {
	kv interfaces.KVStore
}

func NewPersistence(kv interfaces.KVStore) *Persistence {
	return &Persistence{kv: kv}
}

// Load returns the persisted user (nil when logged out or never set) and the
// last selected store ("" when never set).
func (p *Persistence) Load(ctx context.Context) (*models.UserProfile, string, error) {
	var user *models.UserProfile
	if _, err := storage.ReadJSON(ctx, p.kv, storage.KeyUser, &user); err != nil {
		return nil, "", fmt.Errorf("load session: %w", err)
	}

	var lastStore string
	if _, err := storage.ReadJSON(ctx, p.kv, storage.KeyLastStore, &lastStore); err != nil {
		return nil, "", fmt.Errorf("load session: %w", err)
	}

	return user, lastStore, nil
}

// Save writes both blobs. A logged-out session stores a JSON null user.
func (p *Persistence) Save(ctx context.Context, s Session) error {
	if err := storage.WriteJSON(ctx, p.kv, storage.KeyUser, s.Identity); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := storage.WriteJSON(ctx, p.kv, storage.KeyLastStore, s.SelectedStore); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
