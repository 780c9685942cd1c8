package interfaces

import "github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"

type IdentityDirectory interface {
	Authenticate(email, password string) (models.UserProfile, error)
}
