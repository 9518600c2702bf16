package ledger

import (
	"fmt"

	"github.com/splitbase/splitbase/internal/models"
)

// ValidateRegister checks the inputs of a registration. It does not check
// prior registration; that is state-dependent and belongs to the caller's
// serialized check-then-act sequence.
func ValidateRegister(id models.Identity, name string) error {
	if id.IsZero() {
		return fmt.Errorf("%w: identity must not be zero", ErrInvalidInput)
	}
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	return nil
}

// ValidateExpense checks an addExpense call. Conditions are checked in a
// fixed order, each its own failure: label non-empty, participants non-empty,
// equal slice lengths, every identity non-zero. No cross-check that paid sums
// equal owed sums; split balancing is the caller's responsibility.
func ValidateExpense(label string, participants []models.Identity, paid, owed []uint64) error {
	if label == "" {
		return fmt.Errorf("%w: label must not be empty", ErrInvalidInput)
	}
	if len(participants) == 0 {
		return fmt.Errorf("%w: at least one participant required", ErrInvalidInput)
	}
	if len(paid) != len(participants) || len(owed) != len(participants) {
		return fmt.Errorf("%w: %d participants but %d paid and %d owed amounts",
			ErrInvalidInput, len(participants), len(paid), len(owed))
	}
	for i, p := range participants {
		if p.IsZero() {
			return fmt.Errorf("%w: participant %d is the zero identity", ErrInvalidInput, i)
		}
	}
	return nil
}

// BuildSplits turns parallel input slices into the stored paid/owed maps.
// An identity appearing more than once keeps the amounts of its last
// occurrence, in both maps. This is the documented policy, implemented as an
// overwrite loop rather than left to accidental map semantics.
func BuildSplits(participants []models.Identity, paid, owed []uint64) (map[models.Identity]uint64, map[models.Identity]uint64) {
	paidBy := make(map[models.Identity]uint64, len(participants))
	owedBy := make(map[models.Identity]uint64, len(participants))
	for i, p := range participants {
		paidBy[p] = paid[i]
		owedBy[p] = owed[i]
	}
	return paidBy, owedBy
}

// ValidateSettlement checks a settlement attestation: the receiver must be a
// real, distinct identity. A zero amount is valid; attesting a no-op transfer
// is the caller's prerogative.
func ValidateSettlement(from, to models.Identity) error {
	if to.IsZero() {
		return fmt.Errorf("%w: settlement receiver must not be zero", ErrInvalidInput)
	}
	if to == from {
		return fmt.Errorf("%w: cannot settle with yourself", ErrInvalidInput)
	}
	return nil
}
