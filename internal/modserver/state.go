// SPDX-License-Identifier: MPL-2.0

package modserver

import (
	"errors"
	"fmt"
)

// ErrInvalidState is the sentinel wrapped by InvalidStateError.
var ErrInvalidState = errors.New("invalid server state")

// State tracks where a Server is in its lifecycle. Transitions only move
// forward: Created -> Starting -> Running -> Stopping -> Stopped, with
// Failed
// reachable from any non-terminal state. A stopped or failed server is
// never restarted.
type State int32

const (
	// StateCreated: New returned, Start not yet called.
	StateCreated State = iota
	// StateStarting: Start is binding the listener.
	StateStarting
	// StateRunning: the origin is accepting requests.
	StateRunning
	// StateStopping: graceful shutdown in progress.
	StateStopping
	// StateStopped: terminal, shut down cleanly.
	StateStopped
	// StateFailed: terminal, startup or serving failed.
	StateFailed
)

// InvalidStateError reports a State outside the lifecycle set, which can
// only come from a corrupted atomic load or a bad conversion.
type InvalidStateError struct {
	Value State
}

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Validate rejects values outside the defined lifecycle states.
func (s State) Validate() error {
	if s < StateCreated || s > StateFailed {
		return &InvalidStateError{Value: s}
	}
	return nil
}

// IsTerminal reports whether the server can never serve again.
func (s State) IsTerminal() bool {
	return s == StateStopped || s == StateFailed
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid server state %d (lifecycle states are %d..%d)",
		e.Value, StateCreated, StateFailed)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}
