// Package storage provides abstractions for durable ledger storage.
package storage

import (
	"context"
	"time"

	"github.com/splitbase/splitbase/internal/models"
)

// Snapshot is the full durable state, in replay order.
type Snapshot struct {
	// Profiles in registration order.
	Profiles []models.Profile

	// Expenses in ID order, IDs 0..n-1.
	Expenses []*models.Expense
}

// Store is the durable backing for the ledger aggregate. The service writes
// through it inside each mutation and replays it once at startup; all reads
// after that are served from memory.
//
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// SaveProfile appends a newly registered profile.
	SaveProfile(ctx context.Context, p models.Profile) error

	// RenameProfile overwrites the display name of a stored profile.
	RenameProfile(ctx context.Context, id models.Identity, name string) error

	// AppendExpense persists a complete expense record. The record's ID is
	// assigned by the caller and must be unused.
	AppendExpense(ctx context.Context, e *models.Expense) error

	// AppendSettlement records a settlement attestation in the audit trail.
	// Settlements are write-only: nothing in the service reads them back.
	AppendSettlement(ctx context.Context, s models.Settlement, at time.Time) error

	// Load returns the snapshot to replay at startup.
	Load(ctx context.Context) (*Snapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
