package models

// Tool represents one inventory row.
// The same asset tag must never appear in two Tool rows.
type Tool struct {
	// ID is the unique identifier for the tool (UUID format).
	ID string

	// Name is the display name (e.g., "Furadeira"). Not unique.
	Name string

	// AssetTags are the identifiers of the physical units currently in stock,
	// in insertion order.
	AssetTags []string

	// Description is optional free text.
	Description string

	// CreatedAt is the Unix timestamp when the tool was created.
	CreatedAt int64
}

// Available returns the number of units currently in stock for this row.
func (t *Tool) Available() int {
	return len(t.AssetTags)
}

// HasTag reports whether the tag is currently held by this row.
func (t *Tool) HasTag(tag string) bool {
	for _, p := range t.AssetTags {
		if p == tag {
			return true
		}
	}
	return false
}
