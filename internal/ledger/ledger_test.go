package ledger

import (
	"errors"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/splitbase/splitbase/internal/models"
)

func expense(id int64, participants []models.Identity, paid, owed []uint64) *models.Expense {
	paidBy, owedBy := BuildSplits(participants, paid, owed)
	return &models.Expense{
		ID:           id,
		Label:        "test",
		CreatedAt:    time.Now(),
		Participants: participants,
		Paid:         paidBy,
		Owed:         owedBy,
	}
}

func TestValidateExpense(t *testing.T) {
	alice := models.Identity("alice")
	bob := models.Identity("bob")

	tests := []struct {
		name         string
		label        string
		participants []models.Identity
		paid         []uint64
		owed         []uint64
		wantErr      bool
	}{
		{
			name:         "valid two-person expense",
			label:        "Dinner",
			participants: []models.Identity{alice, bob},
			paid:         []uint64{100, 0},
			owed:         []uint64{50, 50},
		},
		{
			name:         "empty label",
			label:        "",
			participants: []models.Identity{alice},
			paid:         []uint64{1},
			owed:         []uint64{1},
			wantErr:      true,
		},
		{
			name:    "no participants",
			label:   "Dinner",
			wantErr: true,
		},
		{
			name:         "paid length mismatch",
			label:        "Dinner",
			participants: []models.Identity{alice, bob},
			paid:         []uint64{100},
			owed:         []uint64{50, 50},
			wantErr:      true,
		},
		{
			name:         "owed length mismatch",
			label:        "Dinner",
			participants: []models.Identity{alice, bob},
			paid:         []uint64{100, 0},
			owed:         []uint64{100},
			wantErr:      true,
		},
		{
			name:         "zero identity participant",
			label:        "Dinner",
			participants: []models.Identity{alice, models.Zero},
			paid:         []uint64{100, 0},
			owed:         []uint64{50, 50},
			wantErr:      true,
		},
		{
			name:         "unbalanced split is accepted",
			label:        "Dinner",
			participants: []models.Identity{alice, bob},
			paid:         []uint64{100, 0},
			owed:         []uint64{10, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpense(tt.label, tt.participants, tt.paid, tt.owed)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("ValidateExpense() = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateExpense() = %v, want nil", err)
			}
		})
	}
}

func TestValidateRegister(t *testing.T) {
	if err := ValidateRegister("alice", "Alice"); err != nil {
		t.Fatalf("valid register rejected: %v", err)
	}
	if err := ValidateRegister(models.Zero, "Alice"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero identity: got %v, want ErrInvalidInput", err)
	}
	if err := ValidateRegister("alice", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty name: got %v, want ErrInvalidInput", err)
	}
}

func TestValidateSettlement(t *testing.T) {
	if err := ValidateSettlement("alice", "bob"); err != nil {
		t.Fatalf("valid settlement rejected: %v", err)
	}
	if err := ValidateSettlement("alice", models.Zero); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero receiver: got %v, want ErrInvalidInput", err)
	}
	if err := ValidateSettlement("alice", "alice"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("self settlement: got %v, want ErrInvalidInput", err)
	}
}

func TestBuildSplitsLastOccurrenceWins(t *testing.T) {
	alice := models.Identity("alice")
	bob := models.Identity("bob")

	paid, owed := BuildSplits(
		[]models.Identity{alice, bob, alice},
		[]uint64{10, 20, 30},
		[]uint64{1, 2, 3},
	)

	if paid[alice] != 30 {
		t.Errorf("paid[alice] = %d, want 30 (last occurrence)", paid[alice])
	}
	if owed[alice] != 3 {
		t.Errorf("owed[alice] = %d, want 3 (last occurrence)", owed[alice])
	}
	if paid[bob] != 20 || owed[bob] != 2 {
		t.Errorf("bob split = (%d, %d), want (20, 2)", paid[bob], owed[bob])
	}
}

func TestLedgerAccessors(t *testing.T) {
	alice := models.Identity("alice")
	bob := models.Identity("bob")

	l := New()
	l.ApplyProfile(models.Profile{Identity: alice, DisplayName: "Alice"})
	l.ApplyProfile(models.Profile{Identity: bob, DisplayName: "Bob"})
	l.ApplyExpense(expense(0, []models.Identity{alice, bob}, []uint64{100, 0}, []uint64{50, 50}))

	t.Run("profiles and registration order", func(t *testing.T) {
		if !l.Registered(alice) {
			t.Error("alice should be registered")
		}
		if got := l.Profile(alice).DisplayName; got != "Alice" {
			t.Errorf("Profile(alice).DisplayName = %q, want Alice", got)
		}
		if !l.Profile("nobody").IsZero() {
			t.Error("unregistered identity should yield the zero profile")
		}
		ids := l.Identities()
		if len(ids) != 2 || ids[0] != alice || ids[1] != bob {
			t.Errorf("Identities() = %v, want [alice bob]", ids)
		}
	})

	t.Run("rename overwrites in place", func(t *testing.T) {
		l.ApplyRename(alice, "Alicia")
		if got := l.Profile(alice).DisplayName; got != "Alicia" {
			t.Errorf("DisplayName after rename = %q, want Alicia", got)
		}
		if ids := l.Identities(); len(ids) != 2 {
			t.Errorf("rename must not grow the registration order, got %v", ids)
		}
	})

	t.Run("record lookups", func(t *testing.T) {
		label, _, err := l.Info(0)
		if err != nil || label != "test" {
			t.Fatalf("Info(0) = (%q, %v)", label, err)
		}
		parts, err := l.Participants(0)
		if err != nil || len(parts) != 2 || parts[0] != alice {
			t.Fatalf("Participants(0) = (%v, %v)", parts, err)
		}
		if got, _ := l.AmountPaid(0, alice); got != 100 {
			t.Errorf("AmountPaid(0, alice) = %d, want 100", got)
		}
		if got, _ := l.AmountOwed(0, bob); got != 50 {
			t.Errorf("AmountOwed(0, bob) = %d, want 50", got)
		}
	})

	t.Run("absent participant reads as zero", func(t *testing.T) {
		if got, err := l.AmountPaid(0, "nobody"); err != nil || got != 0 {
			t.Errorf("AmountPaid(0, nobody) = (%d, %v), want (0, nil)", got, err)
		}
	})

	t.Run("out of range is not found", func(t *testing.T) {
		for _, id := range []int64{1, 99, -1} {
			if _, _, err := l.Info(id); !errors.Is(err, ErrNotFound) {
				t.Errorf("Info(%d) = %v, want ErrNotFound", id, err)
			}
			if _, err := l.Participants(id); !errors.Is(err, ErrNotFound) {
				t.Errorf("Participants(%d) = %v, want ErrNotFound", id, err)
			}
			if _, err := l.AmountPaid(id, alice); !errors.Is(err, ErrNotFound) {
				t.Errorf("AmountPaid(%d) = %v, want ErrNotFound", id, err)
			}
		}
	})
}

func TestNetBalance(t *testing.T) {
	alice := models.Identity("alice")
	bob := models.Identity("bob")

	l := New()
	l.ApplyExpense(expense(0, []models.Identity{alice, bob}, []uint64{100, 0}, []uint64{50, 50}))
	l.ApplyExpense(expense(1, []models.Identity{alice, bob}, []uint64{0, 30}, []uint64{15, 15}))

	if got := l.NetBalance(alice); got.Cmp(big.NewInt(35)) != 0 {
		t.Errorf("NetBalance(alice) = %s, want 35", got)
	}
	if got := l.NetBalance(bob); got.Cmp(big.NewInt(-35)) != 0 {
		t.Errorf("NetBalance(bob) = %s, want -35", got)
	}
	if got := l.NetBalance("nobody"); got.Sign() != 0 {
		t.Errorf("NetBalance(nobody) = %s, want 0", got)
	}
}

// TestNetBalanceNoOverflow accumulates amounts at the top of the uint64 range
// across enough records to overflow any fixed 64-bit accumulator.
func TestNetBalanceNoOverflow(t *testing.T) {
	whale := models.Identity("whale")
	sink := models.Identity("sink")

	l := New()
	const records = 4
	for i := int64(0); i < records; i++ {
		l.ApplyExpense(expense(i,
			[]models.Identity{whale, sink},
			[]uint64{math.MaxUint64, 0},
			[]uint64{0, math.MaxUint64},
		))
	}

	want := new(big.Int).SetUint64(math.MaxUint64)
	want.Mul(want, big.NewInt(records))

	if got := l.NetBalance(whale); got.Cmp(want) != 0 {
		t.Errorf("NetBalance(whale) = %s, want %s", got, want)
	}
	if got := l.NetBalance(sink); got.Cmp(new(big.Int).Neg(want)) != 0 {
		t.Errorf("NetBalance(sink) = %s, want -%s", got, want)
	}
}

// TestNetBalanceIsPureRecompute verifies each added record shifts the balance
// by exactly that record's paid-minus-owed contribution.
func TestNetBalanceIsPureRecompute(t *testing.T) {
	alice := models.Identity("alice")

	l := New()
	running := new(big.Int)
	steps := []struct {
		paid, owed uint64
	}{
		{100, 50},
		{0, 75},
		{20, 20},
		{0, 0},
	}

	for i, step := range steps {
		l.ApplyExpense(expense(int64(i), []models.Identity{alice}, []uint64{step.paid}, []uint64{step.owed}))
		running.Add(running, new(big.Int).SetUint64(step.paid))
		running.Sub(running, new(big.Int).SetUint64(step.owed))

		if got := l.NetBalance(alice); got.Cmp(running) != 0 {
			t.Fatalf("after record %d: NetBalance = %s, want %s", i, got, running)
		}
	}
}
