// Package intake validates and records new cash transactions.
package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/apperrors"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/interfaces"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// EmployeeLookup answers whether a name belongs to a store's employees.
type EmployeeLookup interface {
	HasEmployee(storeID, name string) bool
}

// Request is the raw form input of a submission.
type Request struct {
	Type         models.TransactionType
	RawAmount    string
	Comment      string
	EmployeeName string
}

// Validated is a request that passed every check.
type Validated struct {
	Type         models.TransactionType
	Amount       decimal.Decimal // rounded to cents, > 0
	Comment      string          // trimmed
	EmployeeName string
}

// Validate checks a request for the given store. The first failing check
// wins: type, then amount, then comment, then employee.
func Validate(req Request, storeID string, employees EmployeeLookup) (Validated, error) {
	if !req.Type.Valid() {
		return Validated{}, apperrors.ErrInvalidType
	}

	amount, err := parseAmount(req.RawAmount)
	if err != nil {
		return Validated{}, err
	}

	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return Validated{}, apperrors.ErrMissingComment
	}

	if req.EmployeeName == "" || !employees.HasEmployee(storeID, req.EmployeeName) {
		return Validated{}, apperrors.ErrMissingEmployee
	}

	return Validated{
		Type:         req.Type,
		Amount:       amount,
		Comment:      comment,
		EmployeeName: req.EmployeeName,
	}, nil
}

const (
	// maxAmountLen bounds the raw text before it is parsed.
	maxAmountLen = 64
	// maxIntegerDigits keeps amounts roughly within the float64 range.
	maxIntegerDigits = 308
)

// parseAmount accepts any finite decimal > 0 and rounds it half-up to cents.
// Values that round to zero are rejected so a stored amount is never 0.
func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxAmountLen {
		return decimal.Zero, apperrors.ErrInvalidAmount
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.New(apperrors.CodeInvalidAmount, fmt.Sprintf("amount %q is not a number", raw))
	}
	if !d.IsPositive() {
		return decimal.Zero, apperrors.ErrInvalidAmount
	}

	// Round and Cmp rescale the coefficient, so bound the magnitude from the
	// exponent alone first. The value lies in [10^(mag-1), 10^mag).
	mag := int64(d.NumDigits()) + int64(d.Exponent())
	if mag > maxIntegerDigits {
		return decimal.Zero, apperrors.New(apperrors.CodeInvalidAmount, "amount is too large")
	}
	if mag < -2 {
		return decimal.Zero, apperrors.New(apperrors.CodeInvalidAmount, "amount must be at least 0.01")
	}

	// Round is half away from zero, which is half-up for positive values.
	rounded := d.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, apperrors.New(apperrors.CodeInvalidAmount, "amount must be at least 0.01")
	}
	return rounded, nil
}

// Intake turns validated requests into stored transactions.
type Intake struct {
	employees EmployeeLookup
	repo      interfaces.TransactionRepository
	log       zerolog.Logger

	now   func() time.Time
	newID func() string
}

type Option func(*Intake)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(i *Intake) { i.now = now }
}

// WithIDSource overrides transaction id generation.
func WithIDSource(newID func() string) Option {
	return func(i *Intake) { i.newID = newID }
}

func New(employees EmployeeLookup, repo interfaces.TransactionRepository, log zerolog.Logger, opts ...Option) *Intake {
	i := &Intake{
		employees: employees,
		repo:      repo,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Submit validates req on behalf of user and appends the resulting
// transaction to the user's own store. Nothing is written on a validation
// failure.
func (i *Intake) Submit(ctx context.Context, user models.UserProfile, req Request) (models.Transaction, error) {
	v, err := Validate(req, user.StoreID, i.employees)
	if err != nil {
		i.log.Debug().
			Str("code", string(apperrors.CodeOf(err))).
			Str("store_id", user.StoreID).
			Str("user", user.Email).
			Msg("Transaction rejected")
		return models.Transaction{}, err
	}

	tx := models.Transaction{
		ID:           i.newID(),
		StoreID:      user.StoreID,
		Type:         v.Type,
		Amount:       v.Amount,
		Comment:      v.Comment,
		EmployeeName: v.EmployeeName,
		CreatedBy:    user.Email,
		CreatedAt:    i.now(),
	}

	if err := i.repo.Append(ctx, tx); err != nil {
		return models.Transaction{}, fmt.Errorf("submit transaction: %w", err)
	}

	i.log.Info().
		Str("transaction_id", tx.ID).
		Str("store_id", tx.StoreID).
		Str("type", string(tx.Type)).
		Str("amount", tx.Amount.StringFixed(2)).
		Msg("Transaction recorded")

	return tx, nil
}
