package session

import "github.com/pkg/errors"

var (
	// LoginInProgressErr rejects a second login issued while one is in
	// flight. Queueing would let the stale attempt overwrite the newer
	// one, so concurrent attempts are refused outright.
	LoginInProgressErr = errors.New("a login is already in progress")

	// StaleLoginErr reports a login that resolved after a newer state
	// transition (typically a logout) and was discarded.
	StaleLoginErr = errors.New("login superseded by a newer state change")
)

// ValidationError reports a local input failure detected before any I/O.
// It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
