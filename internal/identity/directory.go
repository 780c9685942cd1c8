// Package identity implements a static credential directory.
package identity

import (
	"fmt"
	"strings"

	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/apperrors"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/interfaces"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Credential is one entry of the static table. Password is plain text only
// until New hashes it.
type Credential struct {
	Password string
	Profile  models.UserProfile
}

type entry struct {
	hash    []byte
	profile models.UserProfile
}

// Directory authenticates against a fixed set of credentials.
type Directory struct {
	entries map[string]entry // keyed by normalized email
	dummy   []byte
}

// New hashes every password with the given bcrypt cost. Emails are
// normalized, so two entries differing only in case collide and are rejected.
func New(creds []Credential, cost int) (*Directory, error) {
	d := &Directory{entries: make(map[string]entry, len(creds))}

	for _, c := range creds {
		key := normalizeEmail(c.Profile.Email)
		if key == "" {
			return nil, fmt.Errorf("identity: credential for %q has empty email", c.Profile.Name)
		}
		if _, dup := d.entries[key]; dup {
			return nil, fmt.Errorf("identity: duplicate email %q", key)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("identity: hash password for %q: %w", key, err)
		}
		d.entries[key] = entry{hash: hash, profile: c.Profile}
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("no-such-user"), cost)
	if err != nil {
		return nil, fmt.Errorf("identity: hash dummy password: %w", err)
	}
	d.dummy = dummy

	return d, nil
}

// Authenticate returns the profile for a matching email/password pair.
// Unknown emails and wrong passwords fail identically.
func (d *Directory) Authenticate(email, password string) (models.UserProfile, error) {
	e, ok := d.entries[normalizeEmail(email)]
	if !ok {
		// same bcrypt work as a real comparison
		_ = bcrypt.CompareHashAndPassword(d.dummy, []byte(password))
		return models.UserProfile{}, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(e.hash, []byte(password)); err != nil {
		return models.UserProfile{}, apperrors.ErrInvalidCredentials
	}

	return e.profile, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ interfaces.IdentityDirectory = (*Directory)(nil)
