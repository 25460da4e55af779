// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package guard

import "sync"

// State is the session state a guard observes.
type State int

const (
	// Pending means the probe has not completed yet. It is never treated
	// as Unauthenticated.
	Pending State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Machine holds a single Pending -> {Authenticated, Unauthenticated}
// transition. The first Resolve wins; later calls are ignored.
type Machine struct {
	mu        sync.Mutex
	state     State
	discarded bool
	done      chan struct{}
}

// NewMachine returns a machine in the Pending state.
func NewMachine() *Machine {
	return &Machine{done: make(chan struct{})}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Resolve moves the machine out of Pending. It reports whether the
// transition was applied.
func (m *Machine) Resolve(authenticated bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Pending || m.discarded {
		return false
	}
	if authenticated {
		m.state = Authenticated
	} else {
		m.state = Unauthenticated
	}
	close(m.done)
	return true
}

// Discard closes the machine to resolution. A machine discarded while
// Pending stays Pending for good.
func (m *Machine) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discarded = true
}

// Done is closed once the machine leaves Pending.
func (m *Machine) Done() <-chan struct{} { return m.done }
