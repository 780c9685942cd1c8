// Package cashdesk is the single logical actor of the cash ledger. It holds
// the current session and runs every user action (login, logout, store
// selection, intake, views) as one step under a single lock.
package cashdesk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/apperrors"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/events/noop"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/intake"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/interfaces"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/ledger"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models/events"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/registry"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/session"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/storage"
	"github.com/shopspring/decimal"
)

// Repository is the transaction store plus its one-time seeding step.
type Repository interface {
	interfaces.TransactionRepository
	SeedOnce(ctx context.Context, stores []models.Store, openingFloat decimal.Decimal, now time.Time, newID func() string) (bool, error)
}

type Deps struct {
	Registry     *registry.Registry
	Directory    interfaces.IdentityDirectory
	KV           interfaces.KVStore // session blobs and, unless Repository is set, transactions
	Repository   Repository
	Publisher    interfaces.EventPublisher
	Log          zerolog.Logger
	OpeningFloat decimal.Decimal

	Now   func() time.Time
	NewID func() string
}

type Desk struct {
	mu sync.Mutex

	registry  *registry.Registry
	directory interfaces.IdentityDirectory
	ledger    *ledger.Ledger
	intake    *intake.Intake
	persist   *session.Persistence
	publisher interfaces.EventPublisher
	log       zerolog.Logger

	current session.Session
}

// PublicBalance is everything an anonymous viewer may see.
type PublicBalance struct {
	Store   models.Store    `json:"store"`
	Balance decimal.Decimal `json:"balance"`
}

// Open seeds the transaction store if it has never been seeded, restores
// the persisted session and returns a ready desk.
func Open(ctx context.Context, d Deps) (*Desk, error) {
	if d.Registry == nil || d.Directory == nil || d.KV == nil {
		return nil, fmt.Errorf("cashdesk: registry, directory and kv store are required")
	}
	if d.Repository == nil {
		d.Repository = storage.NewBlobRepository(d.KV)
	}
	if d.Publisher == nil {
		d.Publisher = noop.Publisher{}
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if !d.OpeningFloat.IsPositive() {
		d.OpeningFloat = decimal.NewFromInt(100)
	}

	seeded, err := d.Repository.SeedOnce(ctx, d.Registry.Stores(), d.OpeningFloat, d.Now(), d.NewID)
	if err != nil {
		return nil, fmt.Errorf("cashdesk: %w", err)
	}
	if seeded {
		d.Log.Info().
			Int("stores", len(d.Registry.Stores())).
			Str("opening_float", d.OpeningFloat.StringFixed(2)).
			Msg("Seeded opening floats")
	} else {
		d.Log.Debug().Msg("Transaction store already seeded")
	}

	desk := &Desk{
		registry:  d.Registry,
		directory: d.Directory,
		ledger:    ledger.NewLedger(d.Repository),
		intake:    intake.New(d.Registry, d.Repository, d.Log, intake.WithClock(d.Now), intake.WithIDSource(d.NewID)),
		persist:   session.NewPersistence(d.KV),
		publisher: d.Publisher,
		log:       d.Log,
	}

	if err := desk.restore(ctx); err != nil {
		return nil, fmt.Errorf("cashdesk: %w", err)
	}
	return desk, nil
}

func (d *Desk) restore(ctx context.Context) error {
	user, lastStore, err := d.persist.Load(ctx)
	if err != nil {
		return err
	}

	if !d.registry.Has(lastStore) {
		lastStore = d.registry.First().ID
	}
	if user != nil && !d.registry.Has(user.StoreID) {
		d.log.Warn().Str("email", user.Email).Str("store_id", user.StoreID).
			Msg("Persisted user belongs to an unknown store; logging out")
		user = nil
	}

	d.current = session.Restore(user, lastStore)
	return d.persist.Save(ctx, d.current)
}

// Session returns a copy of the current session.
func (d *Desk) Session() session.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

func (d *Desk) snapshot() session.Session {
	s := d.current
	if s.Identity != nil {
		identity := *s.Identity
		s.Identity = &identity
	}
	return s
}

// apply runs a session transition and persists the result. Caller holds mu.
func (d *Desk) apply(ctx context.Context, e session.Event) error {
	next, err := session.Apply(d.current, e)
	if err != nil {
		return err
	}
	if err := d.persist.Save(ctx, next); err != nil {
		return err
	}
	d.current = next
	return nil
}

func (d *Desk) Login(ctx context.Context, email, password string) (models.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.current.Authenticated() {
		return models.UserProfile{}, apperrors.ErrAlreadyAuthenticated
	}

	profile, err := d.directory.Authenticate(email, password)
	if err != nil {
		d.log.Info().Str("email", email).Msg("Login failed")
		return models.UserProfile{}, err
	}
	if !d.registry.Has(profile.StoreID) {
		return models.UserProfile{}, fmt.Errorf("login: profile %s references unknown store %q", profile.Email, profile.StoreID)
	}

	if err := d.apply(ctx, session.LoggedIn{Profile: profile}); err != nil {
		return models.UserProfile{}, err
	}

	d.log.Info().
		Str("email", profile.Email).
		Str("role", string(profile.Role)).
		Str("store_id", profile.StoreID).
		Msg("Logged in")
	return profile, nil
}

func (d *Desk) Logout(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.current.Authenticated() {
		return nil
	}
	email := d.current.Identity.Email
	if err := d.apply(ctx, session.LoggedOut{}); err != nil {
		return err
	}
	d.log.Info().Str("email", email).Msg("Logged out")
	return nil
}

// SelectStore changes the public store selection. Only anonymous viewers
// may do this.
func (d *Desk) SelectStore(ctx context.Context, storeID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.registry.Has(storeID) {
		return apperrors.ErrUnknownStore
	}
	if err := d.apply(ctx, session.StoreSelected{StoreID: storeID}); err != nil {
		return err
	}
	d.log.Debug().Str("store_id", storeID).Msg("Store selected")
	return nil
}

// PublicBalance returns the balance of the selected store. It never exposes
// transactions and is available in every state.
func (d *Desk) PublicBalance(ctx context.Context) (PublicBalance, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	store, ok := d.registry.Store(d.current.PublicBalanceStore())
	if !ok {
		return PublicBalance{}, apperrors.ErrUnknownStore
	}
	bal, err := d.ledger.GetBalance(ctx, store.ID)
	if err != nil {
		return PublicBalance{}, err
	}
	return PublicBalance{Store: store, Balance: bal}, nil
}

// Balances returns the public balance of every registered store.
func (d *Desk) Balances(ctx context.Context) ([]models.StoreBalance, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ledger.Balances(ctx, d.registry.Stores())
}

func (d *Desk) Stores() []models.Store {
	return d.registry.Stores()
}

// IntakeEmployees lists the employees a logged-in user may pick as the
// responsible person: those of the user's own store only.
func (d *Desk) IntakeEmployees() ([]models.Employee, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	storeID, err := d.current.IntakeStore()
	if err != nil {
		return nil, err
	}
	return d.registry.Employees(storeID), nil
}

// Submit records a transaction for the logged-in user's store and publishes
// a TransactionRecorded event. A failed publish is logged; the transaction
// stays recorded.
func (d *Desk) Submit(ctx context.Context, req intake.Request) (models.Transaction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.current.CanSubmit() {
		return models.Transaction{}, apperrors.ErrNotAuthenticated
	}

	tx, err := d.intake.Submit(ctx, *d.current.Identity, req)
	if err != nil {
		return models.Transaction{}, err
	}

	d.publish(ctx, tx)
	return tx, nil
}

func (d *Desk) publish(ctx context.Context, tx models.Transaction) {
	bal, err := d.ledger.GetBalance(ctx, tx.StoreID)
	if err != nil {
		d.log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("Could not compute balance for event")
		return
	}

	ev := events.TransactionRecorded{
		TransactionID: tx.ID,
		StoreID:       tx.StoreID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		EmployeeName:  tx.EmployeeName,
		CreatedBy:     tx.CreatedBy,
		StoreBalance:  bal,
		OccurredAt:    tx.CreatedAt,
	}
	if err := d.publisher.Publish(ctx, tx.StoreID, ev); err != nil {
		d.log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("Failed to publish transaction event")
	}
}

// AuditLedger returns the full ledger of any store. Admins only; an empty
// storeID means the admin's own store.
func (d *Desk) AuditLedger(ctx context.Context, storeID string) (models.LedgerView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	target, err := d.current.AuditStore(storeID)
	if err != nil {
		return models.LedgerView{}, err
	}
	if !d.registry.Has(target) {
		return models.LedgerView{}, apperrors.ErrUnknownStore
	}
	return d.ledger.View(ctx, target)
}
