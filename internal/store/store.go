// Package store implements the entity stores backing the dashboard:
// one per entity type (shortcuts, folders, fixed links), each owning an
// in-memory ordered mirror of its table and delegating persistence to
// the database gateway.
//
// The mirror moves through the states uninitialized → loading → ready,
// and flips ready ⇄ loading on every refetch. Failures never change the
// mirror and never leave the store in an error state: the operation's
// error is returned to the caller and the mirror stays as it was.
package store

import (
	"errors"

	"github.com/oklog/ulid/v2"
)

// Store errors.
var (
	// ErrNotAuthenticated is returned for owned-entity operations with
	// no current user, before any gateway call is made.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// State describes where a mirror is in its lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// NewEntityID generates a ULID for a new entity row.
// ULIDs sort lexicographically by creation time, which keeps the id a
// usable tie-breaker for the newest-first ordering.
func NewEntityID() string {
	return ulid.Make().String()
}
