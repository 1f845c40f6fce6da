// Package threadstate tracks the debugger-visible lifecycle of a thread.
package threadstate

import (
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle state of a debuggee thread.
type State string

const (
	StateNew       State = "new"
	StateRunning   State = "running"
	StateSuspended State = "suspended"
	StateKilled    State = "killed"
)

// ErrInvalidTransition is returned for an event the current state does not
// accept.
var ErrInvalidTransition = errors.New("invalid thread state transition")

// Machine is a small deterministic thread state machine.
type Machine struct {
	mu         sync.RWMutex
	state      State
	stopReason string
}

// New creates a machine for a thread the client has not been told about.
func New() *Machine {
	return &Machine{state: StateNew}
}

// NewIn creates a machine already in state.
func NewIn(state State) (*Machine, error) {
	m := New()
	if err := m.Force(state); err != nil {
		return nil, err
	}
	return m, nil
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// StopReason is the reason of the last suspension, empty while running.
func (m *Machine) StopReason() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stopReason
}

// Alive reports whether the thread has not been killed.
func (m *Machine) Alive() bool {
	return m.State() != StateKilled
}

// OnCreated announces the thread.
func (m *Machine) OnCreated() error {
	return m.transition(StateRunning, "", StateNew, StateRunning)
}

// OnSuspend stops the thread. A suspended thread may be suspended again
// with a new reason.
func (m *Machine) OnSuspend(reason string) error {
	return m.transition(StateSuspended, reason, StateNew, StateRunning, StateSuspended)
}

// OnResume lets a suspended thread run.
func (m *Machine) OnResume() error {
	return m.transition(StateRunning, "", StateSuspended)
}

// OnKilled ends the thread. Killing twice is harmless.
func (m *Machine) OnKilled() {
	m.mu.Lock()
	m.state = StateKilled
	m.stopReason = ""
	m.mu.Unlock()
}

// Force sets state unconditionally.
func (m *Machine) Force(state State) error {
	switch state {
	case StateNew, StateRunning, StateSuspended, StateKilled:
		m.mu.Lock()
		m.state = state
		m.stopReason = ""
		m.mu.Unlock()
		return nil
	default:
		return fmt.Errorf("invalid state: %s", state)
	}
}

func (m *Machine) transition(to State, reason string, from ...State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range from {
		if m.state == s {
			m.state = to
			m.stopReason = reason
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, to)
}
