package adapter

import "time"

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnected    State = "connected"
)

// Status is an immutable snapshot of an adapter's connection. Adapters swap
// whole snapshots so a reader never observes a state from one call paired
// with the version from another.
type Status struct {
	State     State     `json:"state"`
	Version   string    `json:"version,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	CheckedAt time.Time `json:"checked_at,omitzero"`
}

var disconnected = &Status{State: StateDisconnected}
