package models

import "time"

// MovementKind classifies a movement.
type MovementKind string

const (
	// MovementCheckout is a tool leaving stock with a requester.
	MovementCheckout MovementKind = "checkout"
	// MovementBroken is a tool reported as damaged.
	MovementBroken MovementKind = "broken"
)

// Valid reports whether k is a known kind.
func (k MovementKind) Valid() bool {
	return k == MovementCheckout || k == MovementBroken
}

// Movement represents one checkout or breakage event.
type Movement struct {
	// ID is the unique identifier for the movement (UUID format).
	ID string

	// Requester is the name of the person taking the tool.
	Requester string

	// Tool is the tool name (not the row ID; several rows may share it).
	Tool string

	// AssetTag is the specific unit taken. Empty means "any available unit".
	AssetTag string

	// Kind is checkout or broken.
	Kind MovementKind

	// CheckedOutAt is when the tool left stock. Zero when unknown.
	CheckedOutAt time.Time

	// ExpectedReturnAt is when the tool should come back. Zero when not set.
	ExpectedReturnAt time.Time

	// SameDayReturn is true when the return was booked by hour on the
	// checkout day rather than by date.
	SameDayReturn bool

	// HasExpectedReturn is true when the tool is expected back.
	HasExpectedReturn bool

	// ReturnedAt is set once the return is recorded. Zero until then.
	ReturnedAt time.Time

	// Notes is free text entered on the form.
	Notes string

	// Project is the optional project name.
	Project string

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64
}

// Returned reports whether a return has been recorded.
func (m *Movement) Returned() bool {
	return !m.ReturnedAt.IsZero()
}

// InUse reports whether the movement still holds a tool out of stock.
func (m *Movement) InUse() bool {
	return m.Kind != MovementBroken && m.HasExpectedReturn && !m.Returned()
}
