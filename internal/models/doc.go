// Package models defines the core domain models for the tool checkout tracker.
//
// # Models
//
//   - Tool: one inventory row owning a set of asset tags
//   - Requester: a person who borrows tools
//   - Project: an optional label a checkout can be filed under
//   - Movement: one checkout or breakage event
//   - AdminUser: an account allowed into the admin panel
//
// Several Tool rows may share a display name; each owns a disjoint subset of
// asset tags. The number of units available for a name is the number of asset
// tags currently held by the rows with that name.
//
// # Design Principles
//
// 1. **Local store is authoritative**: remote replication never rolls back or
// blocks a local write
// 2. **Names, not references**: movements carry requester and tool names as
// strings so history survives inventory edits
// 3. **Zero values mean absent**: an unset time.Time is "not recorded"
package models
