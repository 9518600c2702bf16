// Package models defines the core domain types for Splitbase.
//
// # Models
//
//   - Profile: a registered participant identity with a display name
//   - Expense: an append-only expense record with per-participant paid/owed splits
//   - Settlement: an attestation that one identity paid another out of band
//
// # Design Principles
//
//  1. **Identities are opaque**: callers supply them; the ledger never mints or
//     interprets them. An identity may appear in an expense split without ever
//     registering a profile.
//  2. **Amounts are unsigned integers** in the smallest unit. No floating point
//     anywhere in the money path; signed arithmetic happens only in the balance
//     computation, which uses arbitrary precision.
//  3. **Records are immutable**: an Expense never changes after creation and is
//     never deleted. Net balances are derived, not stored.
package models
