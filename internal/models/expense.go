package models

import "time"

// Expense is one append-only expense record.
// IDs are assigned sequentially starting at 0, so the ID of the next record
// always equals the current record count.
type Expense struct {
	// ID is the 0-based sequential record ID.
	ID int64

	// Label is the human-readable description (e.g., "Dinner"). Non-empty.
	Label string

	// CreatedAt is when the record was appended.
	CreatedAt time.Time

	// Participants is the identity sequence exactly as supplied at creation,
	// in input order, duplicates included.
	Participants []Identity

	// Paid maps each participant to the amount they put in.
	// If an identity appeared more than once in the input, the last
	// occurrence's amount is the one stored.
	Paid map[Identity]uint64

	// Owed maps each participant to the amount they are responsible for.
	// Same last-occurrence-wins rule as Paid.
	Owed map[Identity]uint64
}

// Settlement attests that `From` transferred `Amount` to `To` out of band.
// It is not linked to any expense and never moves a ledger balance; the value
// transfer itself happens in an external system.
type Settlement struct {
	From   Identity
	To     Identity
	Amount uint64
}
