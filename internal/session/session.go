// Package session models who is looking at the cash desk and which store is
// selected, and decides what that viewer may see and do.
//
// Transitions are pure functions of (Session, Event); persistence lives in
// Persistence and orchestration in the cashdesk package.
package session

import (
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/apperrors"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
)

type State string

const (
	Anonymous          State = "anonymous"
	AuthenticatedStaff State = "staff"
	AuthenticatedAdmin State = "admin"
)

// Session is a value; Apply returns a new one rather than mutating.
type Session struct {
	Identity      *models.UserProfile `json:"identity"`
	SelectedStore string              `json:"selectedStore"`
}

// Event is one of LoggedIn, LoggedOut or StoreSelected.
type Event interface {
	isEvent()
}

type LoggedIn struct {
	Profile models.UserProfile
}

type LoggedOut struct{}

// StoreSelected is a manual store pick by the viewer. The store id is
// expected to have been checked against the registry already.
type StoreSelected struct {
	StoreID string
}

func (LoggedIn) isEvent()      {}
func (LoggedOut) isEvent()     {}
func (StoreSelected) isEvent() {}

// NewAnonymous returns an unauthenticated session looking at storeID.
func NewAnonymous(storeID string) Session {
	return Session{SelectedStore: storeID}
}

// Restore rebuilds a session from persisted state. A persisted user wins over
// the persisted store selection, exactly as a fresh login would.
func Restore(user *models.UserProfile, lastStore string) Session {
	s := NewAnonymous(lastStore)
	if user != nil {
		s, _ = Apply(s, LoggedIn{Profile: *user})
	}
	return s
}

func (s Session) State() State {
	switch {
	case s.Identity == nil:
		return Anonymous
	case s.Identity.IsAdmin():
		return AuthenticatedAdmin
	default:
		return AuthenticatedStaff
	}
}

func (s Session) Authenticated() bool {
	return s.Identity != nil
}

// Apply runs one transition.
//
//   - LoggedIn: only from Anonymous; the selection is forced to the user's store.
//   - LoggedOut: back to Anonymous; the selection is left where it was.
//   - StoreSelected: only while Anonymous; authenticated sessions are locked
//     to their own store.
func Apply(s Session, e Event) (Session, error) {
	switch ev := e.(type) {
	case LoggedIn:
		if s.Authenticated() {
			return s, apperrors.ErrAlreadyAuthenticated
		}
		profile := ev.Profile
		return Session{Identity: &profile, SelectedStore: profile.StoreID}, nil

	case LoggedOut:
		return Session{SelectedStore: s.SelectedStore}, nil

	case StoreSelected:
		if s.Authenticated() {
			return s, apperrors.New(apperrors.CodeForbidden, "store selection is locked to your store while logged in")
		}
		return Session{SelectedStore: ev.StoreID}, nil
	}
	return s, nil
}

// PublicBalanceStore is the store whose balance is shown to everyone.
func (s Session) PublicBalanceStore() string {
	return s.SelectedStore
}

func (s Session) CanSubmit() bool {
	return s.Authenticated()
}

func (s Session) CanAudit() bool {
	return s.State() == AuthenticatedAdmin
}

// IntakeStore is the store new transactions are recorded against: always the
// user's own, never a client choice.
func (s Session) IntakeStore() (string, error) {
	if !s.Authenticated() {
		return "", apperrors.ErrNotAuthenticated
	}
	return s.Identity.StoreID, nil
}

// AuditStore resolves which store's full ledger an admin is looking at.
// The audit selector is independent of the intake lock: an admin may audit
// any store while still operating their own. An empty request means the
// admin's own store.
func (s Session) AuditStore(requested string) (string, error) {
	switch s.State() {
	case Anonymous:
		return "", apperrors.ErrNotAuthenticated
	case AuthenticatedStaff:
		return "", apperrors.ErrForbidden
	}
	if requested == "" {
		return s.Identity.StoreID, nil
	}
	return requested, nil
}
