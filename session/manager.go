// Package session owns the authentication lifecycle: it is the single
// source of truth for "is the user authenticated" and the only writer of
// the credential store.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scibiz/eventapp/credentials"
	"github.com/scibiz/eventapp/notify"
)

// AuthClient exchanges an email + one-time passcode for a session. The
// request pipeline's client satisfies this.
type AuthClient interface {
	Exchange(ctx context.Context, identifier, passcode string) (credentials.Session, error)
}

// Deps holds the manager's collaborators. Store and Auth are required;
// Notifier is optional and best-effort.
type Deps struct {
	Store    credentials.Store
	Auth     AuthClient
	Notifier notify.Notifier
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithNow sets the now time function (primarily for testing expiry).
func WithNow(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger overrides the diagnostics logger.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager mediates login and logout, hydrates state from the credential
// store at startup, and exposes the current session to subscribers.
//
// Transitions are serialized: a second login while one is in flight is
// rejected, and a login that resolves after a logout is discarded via a
// generation check so a stale completion can never resurrect a session.
type Manager struct {
	deps   Deps
	logger zerolog.Logger
	now    func() time.Time

	lock        sync.Mutex
	state       State
	session     *credentials.Session
	gen         uint64
	loggingIn   bool
	hydrated    bool
	subscribers map[int]chan Snapshot
	nextSubID   int
}

// New creates a Manager in the Hydrating state. Call Hydrate before
// serving state to the UI.
func New(deps Deps, options ...ManagerOption) (*Manager, error) {
	if deps.Store == nil {
		return nil, errors.New("[session.New] Store is required")
	}
	if deps.Auth == nil {
		return nil, errors.New("[session.New] Auth is required")
	}

	m := &Manager{
		deps:        deps,
		logger:      log.Logger,
		now:         time.Now,
		state:       StateHydrating,
		subscribers: make(map[int]chan Snapshot),
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Hydrate reads the credential store once and settles the manager into
// Authenticated or Unauthenticated. Bad local state (read errors, corrupt
// or expired records) degrades to Unauthenticated and never propagates.
func (m *Manager) Hydrate(ctx context.Context) Snapshot {
	m.lock.Lock()
	if m.hydrated {
		snap := m.snapshotLocked()
		m.lock.Unlock()
		return snap
	}
	gen := m.gen
	m.lock.Unlock()

	stored, err := m.deps.Store.Load(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("could not read stored session, starting unauthenticated")
		stored = nil
	}
	if stored != nil && tokenExpired(stored.Token, m.now()) {
		m.logger.Info().Str("email", stored.Identity.Email).Msg("stored session has expired, discarding")
		if clearErr := m.deps.Store.Clear(ctx); clearErr != nil {
			m.logger.Warn().Err(clearErr).Msg("could not clear expired session")
		}
		stored = nil
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	if m.hydrated || m.gen != gen {
		// A transition won the race; the store result is stale.
		m.hydrated = true
		return m.snapshotLocked()
	}
	m.hydrated = true
	if stored != nil {
		m.session = stored
		m.state = StateAuthenticated
	} else {
		m.state = StateUnauthenticated
	}
	m.emitLocked()
	return m.snapshotLocked()
}

// Login validates the attempt locally, exchanges it through the auth
// client, and on success persists and adopts the returned session. On any
// failure the prior state and the store are left untouched: exactly one
// durable write on success, zero on failure.
func (m *Manager) Login(ctx context.Context, identifier, passcode string) (credentials.Session, error) {
	if err := validateLogin(identifier, passcode); err != nil {
		return credentials.Session{}, err
	}

	m.lock.Lock()
	if m.loggingIn {
		m.lock.Unlock()
		return credentials.Session{}, LoginInProgressErr
	}
	m.loggingIn = true
	gen := m.gen
	m.lock.Unlock()
	defer func() {
		m.lock.Lock()
		m.loggingIn = false
		m.lock.Unlock()
	}()

	exchanged, err := m.deps.Auth.Exchange(ctx, identifier, passcode)
	if err != nil {
		m.logger.Debug().Err(err).Str("identifier", identifier).Msg("login exchange failed")
		return credentials.Session{}, err
	}
	if !exchanged.Complete() {
		return credentials.Session{}, errors.New("[Manager.Login] auth endpoint returned an incomplete session")
	}

	// A logout that happened while the exchange was in flight wins.
	m.lock.Lock()
	stale := m.gen != gen
	m.lock.Unlock()
	if stale {
		return credentials.Session{}, StaleLoginErr
	}

	if err := m.deps.Store.Save(ctx, exchanged); err != nil {
		return credentials.Session{}, err
	}

	m.lock.Lock()
	if m.gen != gen {
		m.lock.Unlock()
		// The write landed after a newer transition; undo it.
		if clearErr := m.deps.Store.Clear(ctx); clearErr != nil {
			m.logger.Error().Err(clearErr).Msg("could not clear superseded login")
		}
		return credentials.Session{}, StaleLoginErr
	}
	adopted := exchanged
	m.session = &adopted
	m.state = StateAuthenticated
	m.hydrated = true
	m.gen++
	m.emitLocked()
	m.lock.Unlock()

	return exchanged, nil
}

// Logout clears memory state before the storage clear so the user is never
// stuck logged in because cleanup failed. The clear and the confirmation
// message are best-effort. Logging out twice is harmless.
func (m *Manager) Logout(ctx context.Context) {
	m.lock.Lock()
	m.gen++
	m.session = nil
	m.state = StateUnauthenticated
	m.hydrated = true
	m.emitLocked()
	m.lock.Unlock()

	if err := m.deps.Store.Clear(ctx); err != nil {
		m.logger.Error().Err(err).Msg("logout could not clear stored credentials")
	}
	if m.deps.Notifier != nil {
		m.deps.Notifier.Notify("You have been successfully logged out")
	}
}

// Invalidate drops the session in response to an authentication rejection
// surfaced by the request pipeline. No-op unless currently authenticated.
func (m *Manager) Invalidate(ctx context.Context) {
	m.lock.Lock()
	if m.state != StateAuthenticated {
		m.lock.Unlock()
		return
	}
	m.gen++
	m.session = nil
	m.state = StateUnauthenticated
	m.emitLocked()
	m.lock.Unlock()

	if err := m.deps.Store.Clear(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("invalidate could not clear stored credentials")
	}
}

// Current returns the latest snapshot.
func (m *Manager) Current() Snapshot {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers a read-only observer. The current snapshot is
// delivered immediately, then one per transition. Sends never block: a
// slow consumer misses intermediate states rather than stalling a
// transition. The returned func cancels the subscription.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := m.nextSubID
	m.nextSubID++
	ch := make(chan Snapshot, 8)
	m.subscribers[id] = ch
	ch <- m.snapshotLocked()

	cancel := func() {
		m.lock.Lock()
		defer m.lock.Unlock()
		if sub, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{State: m.state}
	if m.session != nil {
		copied := *m.session
		snap.Session = &copied
	}
	return snap
}

func (m *Manager) emitLocked() {
	snap := m.snapshotLocked()
	for _, ch := range m.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

// tokenExpired reports whether the bearer token is a JWT whose expiry has
// passed. Tokens that are not parseable JWTs, or carry no expiry, are
// treated as non-expiring; the token stays opaque otherwise.
func tokenExpired(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
