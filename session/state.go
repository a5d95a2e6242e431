package session

import "github.com/scibiz/eventapp/credentials"

// State is the manager's authentication state.
type State int

const (
	// StateHydrating is the initial state while the stored record is
	// being read.
	StateHydrating State = iota

	// StateUnauthenticated means no valid session is held.
	StateUnauthenticated

	// StateAuthenticated means a complete session is held in memory.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateHydrating:
		return "hydrating"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of the manager's state, delivered to
// subscribers on every transition. Session is nil unless State is
// StateAuthenticated.
type Snapshot struct {
	State   State
	Session *credentials.Session
}
