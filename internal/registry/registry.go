// Package registry holds the fixed set of stores and the employees that
// work at each of them.
package registry

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
)

// Registry is immutable after construction.
type Registry struct {
	stores    []models.Store
	byID      map[string]models.Store
	employees map[string][]models.Employee // keyed by store id
}

// New validates and indexes the given stores and employees. Store ids must be
// unique and non-empty, and every employee must belong to a listed store.
func New(stores []models.Store, employees []models.Employee) (*Registry, error) {
	if len(stores) == 0 {
		return nil, fmt.Errorf("registry: at least one store is required")
	}

	r := &Registry{
		stores:    make([]models.Store, 0, len(stores)),
		byID:      make(map[string]models.Store, len(stores)),
		employees: make(map[string][]models.Employee, len(stores)),
	}

	for _, s := range stores {
		if s.ID == "" {
			return nil, fmt.Errorf("registry: store %q has empty id", s.Name)
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate store id %q", s.ID)
		}
		r.byID[s.ID] = s
		r.stores = append(r.stores, s)
	}

	for _, e := range employees {
		if _, ok := r.byID[e.StoreID]; !ok {
			return nil, fmt.Errorf("registry: employee %q references unknown store %q", e.Name, e.StoreID)
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		r.employees[e.StoreID] = append(r.employees[e.StoreID], e)
	}

	return r, nil
}

// Stores returns all stores in registration order.
func (r *Registry) Stores() []models.Store {
	out := make([]models.Store, len(r.stores))
	copy(out, r.stores)
	return out
}

// First returns the first registered store, the default public selection.
func (r *Registry) First() models.Store {
	return r.stores[0]
}

func (r *Registry) Store(id string) (models.Store, bool) {
	s, ok := r.byID[id]
	return s, ok
}

func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Employees returns the employees of one store; unknown stores have none.
func (r *Registry) Employees(storeID string) []models.Employee {
	src := r.employees[storeID]
	out := make([]models.Employee, len(src))
	copy(out, src)
	return out
}

// HasEmployee reports whether name is an employee of the given store.
// Matching is exact.
func (r *Registry) HasEmployee(storeID, name string) bool {
	for _, e := range r.employees[storeID] {
		if e.Name == name {
			return true
		}
	}
	return false
}
