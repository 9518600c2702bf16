// Package sqlite provides a SQLite-backed implementation of the storage.Store
// interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/splitbase/splitbase/internal/models"
	"github.com/splitbase/splitbase/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveProfile appends a newly registered profile. Registration order is the
// autoincrement seq.
func (s *SQLiteStore) SaveProfile(ctx context.Context, p models.Profile) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO profiles (identity, display_name) VALUES (?, ?)",
		string(p.Identity), p.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// RenameProfile overwrites the display name of a stored profile.
func (s *SQLiteStore) RenameProfile(ctx context.Context, id models.Identity, name string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET display_name = ? WHERE identity = ?",
		name, string(id),
	)
	if err != nil {
		return fmt.Errorf("failed to rename profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rename result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// AppendExpense persists a complete expense record in one transaction, so a
// reader never sees a record without its splits.
func (s *SQLiteStore) AppendExpense(ctx context.Context, e *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, label, created_at) VALUES (?, ?, ?)",
		e.ID, e.Label, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, p := range e.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, position, identity, paid, owed) VALUES (?, ?, ?, ?, ?)",
			e.ID, i, string(p), formatAmount(e.Paid[p]), formatAmount(e.Owed[p]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AppendSettlement records a settlement attestation in the audit trail.
func (s *SQLiteStore) AppendSettlement(ctx context.Context, set models.Settlement, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO settlements (id, from_identity, to_identity, amount, created_at) VALUES (?, ?, ?, ?, ?)",
		uuid.New().String(), string(set.From), string(set.To), formatAmount(set.Amount), at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// Load reads back the full snapshot: profiles in registration order, expenses
// in ID order with their splits.
func (s *SQLiteStore) Load(ctx context.Context) (*storage.Snapshot, error) {
	snap := &storage.Snapshot{}

	rows, err := s.db.QueryContext(ctx,
		"SELECT identity, display_name FROM profiles ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var identity, name string
		if err := rows.Scan(&identity, &name); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		snap.Profiles = append(snap.Profiles, models.Profile{
			Identity:    models.Identity(identity),
			DisplayName: name,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	expRows, err := s.db.QueryContext(ctx,
		"SELECT id, label, created_at FROM expenses ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	defer expRows.Close()

	for expRows.Next() {
		var (
			e     models.Expense
			nanos int64
		)
		if err := expRows.Scan(&e.ID, &e.Label, &nanos); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.CreatedAt = time.Unix(0, nanos)
		e.Paid = make(map[models.Identity]uint64)
		e.Owed = make(map[models.Identity]uint64)
		snap.Expenses = append(snap.Expenses, &e)
	}
	if err := expRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, e := range snap.Expenses {
		if err := s.loadSplits(ctx, e); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

// loadSplits fills in one expense's participant sequence and split maps.
// Rebuilding the maps position by position reproduces the last-occurrence-wins
// policy exactly.
func (s *SQLiteStore) loadSplits(ctx context.Context, e *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT identity, paid, owed FROM expense_splits WHERE expense_id = ? ORDER BY position",
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load splits for expense %d: %w", e.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var identity, paid, owed string
		if err := rows.Scan(&identity, &paid, &owed); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		p := models.Identity(identity)
		paidAmt, err := parseAmount(paid)
		if err != nil {
			return fmt.Errorf("bad paid amount for expense %d: %w", e.ID, err)
		}
		owedAmt, err := parseAmount(owed)
		if err != nil {
			return fmt.Errorf("bad owed amount for expense %d: %w", e.ID, err)
		}
		e.Participants = append(e.Participants, p)
		e.Paid[p] = paidAmt
		e.Owed[p] = owedAmt
	}
	return rows.Err()
}

func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func parseAmount(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
