// Package model defines the domain types shared by the repository, service
// and handler layers, together with the sentinel errors the service layer
// returns. Handlers translate these into HTTP status codes; nothing below
// the handler layer knows about HTTP.
package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a booking, order, boat, product, user or
// rule does not exist (or is not visible to the caller).
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the actor lacks the role or ownership an
// operation requires.
var ErrForbidden = errors.New("forbidden")

// ErrOverlapConflict is returned when a requested booking window intersects
// an active booking for the same boat.
var ErrOverlapConflict = errors.New("time window overlaps an active booking")

// ErrInsufficientStock is returned when an order requests more units than a
// product has in stock.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrNoActiveRule is returned by the ledger when no active split rule exists
// for the transaction kind.
var ErrNoActiveRule = errors.New("no active split rule")

// StateError reports a rejected state transition. Current is the status the
// record actually had when the transition was attempted, so clients retrying
// an already-applied transition get a precise "already in state X" message
// instead of a generic failure.
type StateError struct {
	Entity  string // "booking" or "order"
	Event   string // the attempted transition, e.g. "confirm"
	Current string // the status found in the store
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s %s: already %s", e.Event, e.Entity, e.Current)
}

// IsStateError reports whether err is a StateError.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}
