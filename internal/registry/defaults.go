package registry

import "github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"

const (
	StoreMainStreet   = "store-main-street"
	StoreHarbourPoint = "store-harbour-point"
	StoreAirport      = "store-airport"
)

var defaultStores = []models.Store{
	{ID: StoreMainStreet, Name: "Main Street"},
	{ID: StoreHarbourPoint, Name: "Harbour Point"},
	{ID: StoreAirport, Name: "Airport Kiosk"},
}

var defaultEmployees = []models.Employee{
	{ID: "5b0e3a2c-8f1d-4c47-9f63-1f2a7c9d0e01", StoreID: StoreMainStreet, Name: "Ava Patel"},
	{ID: "5b0e3a2c-8f1d-4c47-9f63-1f2a7c9d0e02", StoreID: StoreMainStreet, Name: "Liam Chen"},
	{ID: "5b0e3a2c-8f1d-4c47-9f63-1f2a7c9d0e03", StoreID: StoreMainStreet, Name: "Sofia Rossi"},
	{ID: "5b0e3a2c-8f1d-4c47-9f63-1f2a7c9d0e04", StoreID: StoreHarbourPoint, Name: "Noah Williams"},
	{ID: "5b0e3a2c-8f1d-4c47-9f63-1f2a7c9d0e05", StoreID: StoreHarbourPoint, Name: "Mia Okafor"},
	{ID: "5b0e3a2c-8f1d-4c47-9f63-1f2a7c9d0e06", StoreID: StoreAirport, Name: "Lucas Meyer"},
	{ID: "5b0e3a2c-8f1d-4c47-9f63-1f2a7c9d0e07", StoreID: StoreAirport, Name: "Hana Suzuki"},
}

// Default returns the built-in store and employee registry.
func Default() *Registry {
	r, err := New(defaultStores, defaultEmployees)
	if err != nil {
		panic(err)
	}
	return r
}
