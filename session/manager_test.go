package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/scibiz/eventapp/credentials"
	"github.com/scibiz/eventapp/credentials/storefake"
	"github.com/scibiz/eventapp/internal/utils"
	"github.com/scibiz/eventapp/notify"
	"github.com/scibiz/eventapp/session"
)

const (
	testEmail    = "a@b.com"
	testPasscode = "123456"
	testToken    = "tok1"
)

// fakeAuth is an AuthClient with call counting, error injection, and an
// optional gate so tests can hold an exchange in flight.
type fakeAuth struct {
	lock    sync.Mutex
	calls   int
	session credentials.Session
	err     error
	gate    chan struct{}
}

var _ session.AuthClient = (*fakeAuth)(nil)

func (f *fakeAuth) Exchange(_ context.Context, _, _ string) (credentials.Session, error) {
	f.lock.Lock()
	f.calls++
	gate := f.gate
	f.lock.Unlock()

	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return credentials.Session{}, f.err
	}
	return f.session, nil
}

func (f *fakeAuth) Calls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls
}

type testFixture struct {
	store   *storefake.FakeStore
	auth    *fakeAuth
	manager *session.Manager

	noteLock sync.Mutex
	notes    []string
}

func (f *testFixture) notifications() []string {
	f.noteLock.Lock()
	defer f.noteLock.Unlock()
	return append([]string(nil), f.notes...)
}

func setupTestFixture(t *testing.T, options ...session.ManagerOption) *testFixture {
	t.Helper()

	f := &testFixture{
		store: storefake.NewFakeStore(),
		auth: &fakeAuth{
			session: credentials.Session{
				Token:    testToken,
				Identity: credentials.Identity{Email: testEmail},
			},
		},
	}

	manager, err := session.New(session.Deps{
		Store: f.store,
		Auth:  f.auth,
		Notifier: notify.Func(func(message string) {
			f.noteLock.Lock()
			f.notes = append(f.notes, message)
			f.noteLock.Unlock()
		}),
	}, options...)
	require.NoError(t, err)

	f.manager = manager
	return f
}

func expiredJWT(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := session.New(session.Deps{Auth: &fakeAuth{}})
	require.Error(t, err)

	_, err = session.New(session.Deps{Store: storefake.NewFakeStore()})
	require.Error(t, err)
}

func TestManager_HydrateEmptyStore(t *testing.T) {
	f := setupTestFixture(t)

	require.Equal(t, session.StateHydrating, f.manager.Current().State)

	snap := f.manager.Hydrate(context.Background())
	require.Equal(t, session.StateUnauthenticated, snap.State)
	require.Nil(t, snap.Session)
}

func TestManager_HydrateValidSession(t *testing.T) {
	f := setupTestFixture(t)
	f.store.Set(utils.Ptr(credentials.Session{
		Token:    testToken,
		Identity: credentials.Identity{Email: testEmail},
	}))

	snap := f.manager.Hydrate(context.Background())
	require.Equal(t, session.StateAuthenticated, snap.State)
	require.NotNil(t, snap.Session)
	require.Equal(t, testEmail, snap.Session.Identity.Email)
}

func TestManager_HydrateStoreErrorDegradesToUnauthenticated(t *testing.T) {
	f := setupTestFixture(t)
	f.store.LoadErr = errors.New("disk on fire")

	snap := f.manager.Hydrate(context.Background())
	require.Equal(t, session.StateUnauthenticated, snap.State)
}

func TestManager_HydrateExpiredTokenDiscarded(t *testing.T) {
	f := setupTestFixture(t)
	f.store.Set(utils.Ptr(credentials.Session{
		Token:    expiredJWT(t),
		Identity: credentials.Identity{Email: testEmail},
	}))

	snap := f.manager.Hydrate(context.Background())
	require.Equal(t, session.StateUnauthenticated, snap.State)
	require.Nil(t, f.store.Current(), "expired record should be cleared")
}

func TestManager_HydrateOpaqueTokenKept(t *testing.T) {
	// Tokens that are not JWTs carry no expiry and stay valid.
	f := setupTestFixture(t)
	f.store.Set(utils.Ptr(credentials.Session{
		Token:    "opaque-not-a-jwt",
		Identity: credentials.Identity{Email: testEmail},
	}))

	snap := f.manager.Hydrate(context.Background())
	require.Equal(t, session.StateAuthenticated, snap.State)
}

func TestManager_HydrateIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)

	first := f.manager.Hydrate(context.Background())
	f.store.Set(utils.Ptr(credentials.Session{
		Token:    testToken,
		Identity: credentials.Identity{Email: testEmail},
	}))
	second := f.manager.Hydrate(context.Background())

	require.Equal(t, first.State, second.State, "store is read once at process start")
}

func TestManager_LoginSuccess(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	granted, err := f.manager.Login(ctx, testEmail, testPasscode)
	require.NoError(t, err)
	require.Equal(t, testToken, granted.Token)
	require.Equal(t, testEmail, granted.Identity.Email)

	snap := f.manager.Current()
	require.Equal(t, session.StateAuthenticated, snap.State)

	stored := f.store.Current()
	require.NotNil(t, stored)
	require.Equal(t, testToken, stored.Token)
	require.Equal(t, testEmail, stored.Identity.Email)
	require.Equal(t, 1, f.store.Saves(), "exactly one durable write on success")
}

func TestManager_LoginShortPasscodeRejectedLocally(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	_, err := f.manager.Login(ctx, testEmail, "123")
	require.Error(t, err)

	var validationErr *session.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "passcode must be 6 digits", validationErr.Message)
	require.Zero(t, f.auth.Calls(), "validation failures must not reach the network")
	require.Zero(t, f.store.Saves())
}

func TestManager_LoginBadEmailRejectedLocally(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	_, err := f.manager.Login(ctx, "not-an-email", testPasscode)
	require.Error(t, err)

	var validationErr *session.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Zero(t, f.auth.Calls())
}

func TestManager_LoginExchangeFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	exchangeErr := errors.New("Invalid identifier or password")
	f.auth.err = exchangeErr

	_, err := f.manager.Login(ctx, testEmail, testPasscode)
	require.ErrorIs(t, err, exchangeErr)
	require.Equal(t, session.StateUnauthenticated, f.manager.Current().State)
	require.Zero(t, f.store.Saves(), "no partial writes on failed login")
	require.Nil(t, f.store.Current())
}

func TestManager_LoginStoreWriteFailureIsLoginFailure(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	f.store.SaveErr = &credentials.StorageError{Op: "write", Err: errors.New("quota exceeded")}

	_, err := f.manager.Login(ctx, testEmail, testPasscode)
	require.Error(t, err)

	var storageErr *credentials.StorageError
	require.ErrorAs(t, err, &storageErr)
	require.Equal(t, session.StateUnauthenticated, f.manager.Current().State)
}

func TestManager_LoginIncompleteSessionRejected(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	f.auth.session = credentials.Session{Token: testToken} // no identity

	_, err := f.manager.Login(ctx, testEmail, testPasscode)
	require.Error(t, err)
	require.Equal(t, session.StateUnauthenticated, f.manager.Current().State)
	require.Zero(t, f.store.Saves())
}

func TestManager_SecondLoginWhileInFlightRejected(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	f.auth.gate = make(chan struct{})
	firstResult := make(chan error, 1)
	go func() {
		_, err := f.manager.Login(ctx, testEmail, testPasscode)
		firstResult <- err
	}()

	require.Eventually(t, func() bool { return f.auth.Calls() == 1 }, time.Second, 5*time.Millisecond)

	_, err := f.manager.Login(ctx, testEmail, testPasscode)
	require.ErrorIs(t, err, session.LoginInProgressErr)

	close(f.auth.gate)
	require.NoError(t, <-firstResult)
	require.Equal(t, 1, f.store.Saves(), "credential store writes must never interleave")
}

func TestManager_StaleLoginAfterLogoutDoesNotResurrectSession(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	f.auth.gate = make(chan struct{})
	result := make(chan error, 1)
	go func() {
		_, err := f.manager.Login(ctx, testEmail, testPasscode)
		result <- err
	}()

	require.Eventually(t, func() bool { return f.auth.Calls() == 1 }, time.Second, 5*time.Millisecond)

	f.manager.Logout(ctx)
	close(f.auth.gate)

	require.ErrorIs(t, <-result, session.StaleLoginErr)
	require.Equal(t, session.StateUnauthenticated, f.manager.Current().State)
	require.Nil(t, f.store.Current(), "stale completion must not leave credentials behind")
}

func TestManager_LogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	_, err := f.manager.Login(ctx, testEmail, testPasscode)
	require.NoError(t, err)

	f.manager.Logout(ctx)

	require.Equal(t, session.StateUnauthenticated, f.manager.Current().State)
	require.Nil(t, f.store.Current())
	require.Contains(t, f.notifications(), "You have been successfully logged out")
}

func TestManager_LogoutIdempotent(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	f.manager.Logout(ctx)
	f.manager.Logout(ctx)

	require.Equal(t, session.StateUnauthenticated, f.manager.Current().State)
	require.Nil(t, f.store.Current())
}

func TestManager_LogoutSurvivesStorageFailure(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	_, err := f.manager.Login(ctx, testEmail, testPasscode)
	require.NoError(t, err)

	f.store.ClearErr = errors.New("storage unavailable")
	f.manager.Logout(ctx)

	require.Equal(t, session.StateUnauthenticated, f.manager.Current().State,
		"user must never be stuck logged in because cleanup failed")
}

func TestManager_InvalidateDropsAuthenticatedSession(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	f.manager.Hydrate(ctx)

	_, err := f.manager.Login(ctx, testEmail, testPasscode)
	require.NoError(t, err)

	f.manager.Invalidate(ctx)
	require.Equal(t, session.StateUnauthenticated, f.manager.Current().State)
	require.Nil(t, f.store.Current())

	// No-op when already unauthenticated.
	f.manager.Invalidate(ctx)
	require.Equal(t, session.StateUnauthenticated, f.manager.Current().State)
}

func TestManager_SubscribeObservesTransitions(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)

	updates, cancel := f.manager.Subscribe()
	defer cancel()

	initial := <-updates
	require.Equal(t, session.StateHydrating, initial.State)

	f.manager.Hydrate(ctx)
	hydrated := <-updates
	require.Equal(t, session.StateUnauthenticated, hydrated.State)

	_, err := f.manager.Login(ctx, testEmail, testPasscode)
	require.NoError(t, err)
	loggedIn := <-updates
	require.Equal(t, session.StateAuthenticated, loggedIn.State)
	require.Equal(t, testEmail, loggedIn.Session.Identity.Email)

	f.manager.Logout(ctx)
	loggedOut := <-updates
	require.Equal(t, session.StateUnauthenticated, loggedOut.State)
	require.Nil(t, loggedOut.Session)
}

func TestManager_SubscribeCancelStopsDelivery(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)

	updates, cancel := f.manager.Subscribe()
	<-updates
	cancel()

	f.manager.Hydrate(ctx)
	_, open := <-updates
	require.False(t, open, "cancelled subscription channel should be closed")
}
