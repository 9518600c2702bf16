package models

// Identity is an opaque, globally unique participant reference.
// The zero value ("") is reserved and never a valid participant.
type Identity string

// Zero is the reserved empty identity.
const Zero Identity = ""

// IsZero reports whether the identity is the reserved empty value.
func (id Identity) IsZero() bool {
	return id == Zero
}

// Profile is a registered identity with a display name.
// One profile per identity; created once, renamed via an explicit operation,
// never destroyed.
type Profile struct {
	// Identity is the opaque ID the profile belongs to.
	// A zero Identity marks the profile itself as "unregistered" — callers
	// must check it rather than the name, since "" is a legal display name
	// only in the zero-value case.
	Identity Identity

	// DisplayName is the human-readable name. Non-empty for registered
	// profiles.
	DisplayName string
}

// IsZero reports whether the profile is the unregistered zero value.
func (p Profile) IsZero() bool {
	return p.Identity.IsZero()
}
