package identity

import (
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/registry"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCredentials is the demo credential table. Each store has a staff
// login and Main Street also has the admin.
var DefaultCredentials = []Credential{
	{
		Password: "admin123",
		Profile: models.UserProfile{
			Email:   "admin@cashledger.example",
			Name:    "Grace Admin",
			Role:    models.RoleAdmin,
			StoreID: registry.StoreMainStreet,
		},
	},
	{
		Password: "staff123",
		Profile: models.UserProfile{
			Email:   "mainstreet@cashledger.example",
			Name:    "Main Street Till",
			Role:    models.RoleStaff,
			StoreID: registry.StoreMainStreet,
		},
	},
	{
		Password: "staff123",
		Profile: models.UserProfile{
			Email:   "harbour@cashledger.example",
			Name:    "Harbour Point Till",
			Role:    models.RoleStaff,
			StoreID: registry.StoreHarbourPoint,
		},
	},
	{
		Password: "staff123",
		Profile: models.UserProfile{
			Email:   "airport@cashledger.example",
			Name:    "Airport Till",
			Role:    models.RoleStaff,
			StoreID: registry.StoreAirport,
		},
	},
}

// Default builds the demo directory.
func Default() (*Directory, error) {
	return New(DefaultCredentials, bcrypt.DefaultCost)
}
