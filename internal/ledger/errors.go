package ledger

import "errors"

// Sentinel errors for the ledger's failure taxonomy. Every validation failure
// wraps one of these; callers branch with errors.Is.
var (
	// ErrInvalidInput marks malformed caller-supplied data: empty strings,
	// mismatched slice lengths, zero or self identities.
	ErrInvalidInput = errors.New("ledger: invalid input")

	// ErrAlreadyRegistered is returned when registering an identity that
	// already has a profile.
	ErrAlreadyRegistered = errors.New("ledger: identity already registered")

	// ErrNotFound is returned for lookups of record IDs at or beyond the
	// current count, and for renames of unregistered identities.
	ErrNotFound = errors.New("ledger: not found")
)
