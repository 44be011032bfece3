package session

import (
	"sync"

	perr "bluebird/internal/platform/errors"
)

// State is where a session stands
type State string

// States
const (
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Event moves a session between states
type Event string

// Events
const (
	EventResolved  Event = "resolved"
	EventRejected  Event = "rejected"
	EventSignedIn  Event = "signed_in"
	EventSignedOut Event = "signed_out"
	EventExpired   Event = "expired"
)

var transitions = map[State]map[Event]State{
	StateLoading: {
		EventResolved: StateAuthenticated,
		EventSignedIn: StateAuthenticated,
		EventRejected: StateUnauthenticated,
	},
	StateAuthenticated: {
		EventResolved:  StateAuthenticated,
		EventSignedIn:  StateAuthenticated,
		EventRejected:  StateUnauthenticated,
		EventSignedOut: StateUnauthenticated,
		EventExpired:   StateUnauthenticated,
	},
	StateUnauthenticated: {
		EventResolved: StateAuthenticated,
		EventSignedIn: StateAuthenticated,
		EventRejected: StateUnauthenticated,
	},
}

// Machine is one session's state. There is no terminal state
type Machine struct {
	mu    sync.Mutex
	state State
}

// NewMachine starts in loading
func NewMachine() *Machine { return &Machine{state: StateLoading} }

// State returns the current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Fire applies ev. An event the current state does not accept leaves the
// state unchanged and returns a Conflict error
func (m *Machine) Fire(ev Event) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, ok := transitions[m.state][ev]
	if !ok {
		return m.state, perr.Conflictf("session cannot go from %s on %s", m.state, ev)
	}
	m.state = next
	return next, nil
}
