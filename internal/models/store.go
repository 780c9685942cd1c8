package models

// Store is an independent cash safe with its own employees and ledger
type Store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Employee belongs to exactly one store. Employees are only offered as the
// responsible person on intake; they never log in.
type Employee struct {
	ID      string `json:"id"`
	StoreID string `json:"storeId"`
	Name    string `json:"name"`
}
