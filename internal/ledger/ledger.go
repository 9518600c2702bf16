// Package ledger holds the in-memory ledger aggregate: registered profiles,
// the append-only expense log, and the balance computation over it.
//
// The aggregate is the single source of truth for reads. All state lives
// behind one RWMutex so readers always observe fully written records; writers
// are additionally serialized by the service layer, which owns the
// check-then-act sequence (validate, persist, apply).
package ledger

import (
	"math/big"
	"sync"
	"time"

	"github.com/splitbase/splitbase/internal/models"
)

// Ledger is the ledger state aggregate. The zero value is not usable; call
// New or Restore.
type Ledger struct {
	mu       sync.RWMutex
	profiles map[models.Identity]models.Profile
	order    []models.Identity // registration order, for enumeration
	expenses []*models.Expense // index == record ID
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		profiles: make(map[models.Identity]models.Profile),
	}
}

// Restore rebuilds a ledger from a durable snapshot. Profiles must be in
// registration order and expenses in ID order with IDs 0..n-1.
func Restore(profiles []models.Profile, expenses []*models.Expense) *Ledger {
	l := New()
	for _, p := range profiles {
		l.profiles[p.Identity] = p
		l.order = append(l.order, p.Identity)
	}
	l.expenses = append(l.expenses, expenses...)
	return l
}

// Registered reports whether the identity has a profile.
func (l *Ledger) Registered(id models.Identity) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.profiles[id]
	return ok
}

// Profile returns the profile for the identity, or the zero-value profile if
// it was never registered. Callers distinguish the two by Profile.IsZero, not
// by the display name.
func (l *Ledger) Profile(id models.Identity) models.Profile {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.profiles[id]
}

// Identities returns the registered identities in registration order.
func (l *Ledger) Identities() []models.Identity {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Identity, len(l.order))
	copy(out, l.order)
	return out
}

// Count returns the number of expense records, which is also the exclusive
// upper bound on valid record IDs.
func (l *Ledger) Count() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int64(len(l.expenses))
}

// Info returns the label and creation time of a record.
func (l *Ledger) Info(id int64) (string, time.Time, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, err := l.record(id)
	if err != nil {
		return "", time.Time{}, err
	}
	return e.Label, e.CreatedAt, nil
}

// Participants returns the record's participant sequence in original input
// order, duplicates included.
func (l *Ledger) Participants(id int64) ([]models.Identity, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, err := l.record(id)
	if err != nil {
		return nil, err
	}
	out := make([]models.Identity, len(e.Participants))
	copy(out, e.Participants)
	return out, nil
}

// AmountPaid returns how much the participant put into the record. An
// identity absent from the split reads as 0, indistinguishable from an
// explicit zero.
func (l *Ledger) AmountPaid(id int64, p models.Identity) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, err := l.record(id)
	if err != nil {
		return 0, err
	}
	return e.Paid[p], nil
}

// AmountOwed returns the participant's share of the record. Absent reads as 0.
func (l *Ledger) AmountOwed(id int64, p models.Identity) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, err := l.record(id)
	if err != nil {
		return 0, err
	}
	return e.Owed[p], nil
}

// record looks up an expense by ID. Callers hold at least the read lock.
func (l *Ledger) record(id int64) (*models.Expense, error) {
	if id < 0 || id >= int64(len(l.expenses)) {
		return nil, ErrNotFound
	}
	return l.expenses[id], nil
}

// ApplyProfile stores a validated new profile and appends the identity to the
// registration order.
func (l *Ledger) ApplyProfile(p models.Profile) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profiles[p.Identity] = p
	l.order = append(l.order, p.Identity)
}

// ApplyRename overwrites the display name of an existing profile.
func (l *Ledger) ApplyRename(id models.Identity, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.profiles[id]
	p.DisplayName = name
	l.profiles[id] = p
}

// ApplyExpense appends a validated record. The record's ID must equal the
// current count; the service's write serialization guarantees this.
func (l *Ledger) ApplyExpense(e *models.Expense) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expenses = append(l.expenses, e)
}

// NetBalance computes the signed sum of (paid - owed) for the identity across
// every record, in ID order. It is a full recompute on every call: O(total
// records), exact at any magnitude, never cached. Callers needing frequent
// balance reads cache externally.
func (l *Ledger) NetBalance(p models.Identity) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := new(big.Int)
	term := new(big.Int)
	for _, e := range l.expenses {
		if paid, ok := e.Paid[p]; ok && paid != 0 {
			total.Add(total, term.SetUint64(paid))
		}
		if owed, ok := e.Owed[p]; ok && owed != 0 {
			total.Sub(total, term.SetUint64(owed))
		}
	}
	return total
}
