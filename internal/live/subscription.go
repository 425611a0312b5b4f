// Package live is the collection subscription manager: clients open
// role-scoped live queries over a WebSocket and receive the full current
// result set whenever the underlying collection changes.
package live

import (
	"errors"
	"sync/atomic"

	"github.com/DevKano98/Web24kanban/internal/models"
)

// State is the explicit subscription lifecycle. Teardown always runs
// before a replacement subscription opens for the same client id, so a
// late push can never carry data for an abandoned filter.
type State int32

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

var errBadTransition = errors.New("live: invalid subscription state transition")

// QueryParams are the caller-supplied predicates. Role scoping is layered
// on top by the source; params can narrow a view but never widen it.
type QueryParams struct {
	ProjectID *uint64            `json:"project_id,omitempty"`
	Status    *models.TaskStatus `json:"status,omitempty"`
	Role      *models.Role       `json:"role,omitempty"`
}

// Query names a collection plus its predicates.
type Query struct {
	Collection string
	Params     QueryParams
}

// Subscription is one live query owned by one connection.
type Subscription struct {
	ID    string
	Query Query

	state atomic.Int32
}

// NewSubscription returns a subscription in the Closed state.
func NewSubscription(id string, q Query) *Subscription {
	return &Subscription{ID: id, Query: q}
}

// State returns the current lifecycle state.
func (s *Subscription) State() State {
	return State(s.state.Load())
}

// transition moves the subscription between adjacent lifecycle states.
func (s *Subscription) transition(from, to State) error {
	if !s.state.CompareAndSwap(int32(from), int32(to)) {
		return errBadTransition
	}
	return nil
}

// Opening moves Closed → Opening.
func (s *Subscription) Opening() error { return s.transition(StateClosed, StateOpening) }

// Opened moves Opening → Open.
func (s *Subscription) Opened() error { return s.transition(StateOpening, StateOpen) }

// Closing moves Open → Closing.
func (s *Subscription) Closing() error { return s.transition(StateOpen, StateClosing) }

// Closed moves Closing → Closed, or aborts an Opening subscription.
func (s *Subscription) Close() {
	if s.state.CompareAndSwap(int32(StateClosing), int32(StateClosed)) {
		return
	}
	s.state.Store(int32(StateClosed))
}
