// Package service exposes the ledger's operation surface: validation, ID
// assignment, write-through persistence, and notification emission.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/splitbase/splitbase/internal/events"
	"github.com/splitbase/splitbase/internal/ledger"
	"github.com/splitbase/splitbase/internal/models"
	"github.com/splitbase/splitbase/internal/storage"
)

// ExpenseInfo is the basic lookup result for one record.
type ExpenseInfo struct {
	ID        int64
	Label     string
	CreatedAt time.Time
}

// Service is the ledger façade. All mutating operations serialize on one
// mutex so expense IDs are gapless and strictly increasing and no reader ever
// observes a partially applied mutation. Read operations go straight to the
// aggregate and may run concurrently.
type Service struct {
	mu     sync.Mutex // single writer: guards validate -> persist -> apply
	ledger *ledger.Ledger
	store  storage.Store
	bus    *events.Bus

	now func() time.Time
}

// New creates a Service over an already-restored aggregate.
func New(led *ledger.Ledger, store storage.Store, bus *events.Bus) *Service {
	return &Service{
		ledger: led,
		store:  store,
		bus:    bus,
		now:    time.Now,
	}
}

// Register creates a profile for the identity. The identity must not already
// have one, and the name must be non-empty.
func (s *Service) Register(ctx context.Context, id models.Identity, name string) error {
	if err := ledger.ValidateRegister(id, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ledger.Registered(id) {
		return fmt.Errorf("%w: %s", ledger.ErrAlreadyRegistered, id)
	}

	p := models.Profile{Identity: id, DisplayName: name}
	if err := s.store.SaveProfile(ctx, p); err != nil {
		slog.Error("register: persist failed", "identity", id, "error", err)
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	s.ledger.ApplyProfile(p)

	s.bus.Publish(events.Event{Kind: events.PersonRegistered, Identity: id, Name: name})
	return nil
}

// Rename overwrites the display name of a registered identity. Renaming an
// identity without a profile is rejected with ErrNotFound: silently
// materializing a half-formed profile would make listIdentities and the
// zero-value contract of GetProfile meaningless.
func (s *Service) Rename(ctx context.Context, id models.Identity, newName string) error {
	if err := ledger.ValidateRegister(id, newName); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ledger.Registered(id) {
		return fmt.Errorf("%w: %s", ledger.ErrNotFound, id)
	}

	if err := s.store.RenameProfile(ctx, id, newName); err != nil {
		slog.Error("rename: persist failed", "identity", id, "error", err)
		return fmt.Errorf("failed to persist rename: %w", err)
	}
	s.ledger.ApplyRename(id, newName)

	s.bus.Publish(events.Event{Kind: events.PersonRenamed, Identity: id, Name: newName})
	return nil
}

// GetProfile returns the identity's profile, or the zero-value profile if it
// was never registered.
func (s *Service) GetProfile(id models.Identity) models.Profile {
	return s.ledger.Profile(id)
}

// ListIdentities returns all registered identities in registration order.
func (s *Service) ListIdentities() []models.Identity {
	return s.ledger.Identities()
}

// AddExpense validates and appends one expense record, returning its ID.
// Validation fully precedes any write: a failed call leaves no trace. The
// record ID equals the count before the append. Whether paid amounts sum to
// owed amounts is deliberately not checked.
func (s *Service) AddExpense(ctx context.Context, label string, participants []models.Identity, paid, owed []uint64) (int64, error) {
	if err := ledger.ValidateExpense(label, participants, paid, owed); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	paidBy, owedBy := ledger.BuildSplits(participants, paid, owed)
	e := &models.Expense{
		ID:           s.ledger.Count(),
		Label:        label,
		CreatedAt:    s.now(),
		Participants: append([]models.Identity(nil), participants...),
		Paid:         paidBy,
		Owed:         owedBy,
	}

	if err := s.store.AppendExpense(ctx, e); err != nil {
		slog.Error("addExpense: persist failed", "expense_id", e.ID, "error", err)
		return 0, fmt.Errorf("failed to persist expense: %w", err)
	}
	s.ledger.ApplyExpense(e)

	s.bus.Publish(events.Event{Kind: events.ExpenseAdded, ExpenseID: e.ID, Label: e.Label})
	return e.ID, nil
}

// ExpenseInfo returns the basic fields of one record.
func (s *Service) ExpenseInfo(id int64) (ExpenseInfo, error) {
	label, at, err := s.ledger.Info(id)
	if err != nil {
		return ExpenseInfo{}, err
	}
	return ExpenseInfo{ID: id, Label: label, CreatedAt: at}, nil
}

// ExpenseParticipants returns the record's participant sequence in original
// insertion order.
func (s *Service) ExpenseParticipants(id int64) ([]models.Identity, error) {
	return s.ledger.Participants(id)
}

// AmountPaid returns the participant's paid amount in the record; 0 if the
// identity is not in the split.
func (s *Service) AmountPaid(id int64, p models.Identity) (uint64, error) {
	return s.ledger.AmountPaid(id, p)
}

// AmountOwed returns the participant's owed amount in the record; 0 if the
// identity is not in the split.
func (s *Service) AmountOwed(id int64, p models.Identity) (uint64, error) {
	return s.ledger.AmountOwed(id, p)
}

// ExpenseCount returns the total number of records.
func (s *Service) ExpenseCount() int64 {
	return s.ledger.Count()
}

// NetBalance recomputes the identity's signed paid-minus-owed total across
// the whole ledger. Positive means owed money, negative means owing.
func (s *Service) NetBalance(p models.Identity) *big.Int {
	return s.ledger.NetBalance(p)
}

// Settle attests that from paid to out of band. It never touches expense
// state or balances; the attestation goes to the audit trail and the
// debt-settled notification. A zero amount is valid.
func (s *Service) Settle(ctx context.Context, from, to models.Identity, amount uint64) error {
	if err := ledger.ValidateSettlement(from, to); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set := models.Settlement{From: from, To: to, Amount: amount}
	if err := s.store.AppendSettlement(ctx, set, s.now()); err != nil {
		slog.Error("settle: persist failed", "from", from, "to", to, "error", err)
		return fmt.Errorf("failed to persist settlement: %w", err)
	}

	s.bus.Publish(events.Event{Kind: events.DebtSettled, From: from, To: to, Amount: amount})
	return nil
}
