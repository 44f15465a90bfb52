package models

import "strings"

// Requester represents a person who can borrow tools.
// Names are unique ignoring letter case.
type Requester struct {
	// ID is the unique identifier for the requester (UUID format).
	ID string

	// Name is the display name, stored as first entered.
	Name string

	// CreatedAt is the Unix timestamp when the requester was created.
	CreatedAt int64
}

// Project represents a job a checkout can be filed under.
// Names are unique ignoring letter case.
type Project struct {
	ID        string
	Name      string
	CreatedAt int64
}

// FoldName returns the key under which requester and project names are
// compared. strings.ToUpper folds accented letters too, so "José" and
// "JOSÉ" collide.
func FoldName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
