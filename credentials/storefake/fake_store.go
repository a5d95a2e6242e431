package storefake

import (
	"context"
	"sync"

	"github.com/scibiz/eventapp/credentials"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credentials.Store with error injection for
// tests. The zero value is usable.
type FakeStore struct {
	SaveErr  error
	LoadErr  error
	ClearErr error

	lock    sync.Mutex
	session *credentials.Session
	saves   int
	clears  int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) Save(_ context.Context, session credentials.Session) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.SaveErr != nil {
		return fs.SaveErr
	}
	fs.saves++
	fs.session = &session
	return nil
}

func (fs *FakeStore) Load(_ context.Context) (*credentials.Session, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.LoadErr != nil {
		return nil, fs.LoadErr
	}
	if fs.session == nil {
		return nil, nil
	}
	copied := *fs.session
	return &copied, nil
}

func (fs *FakeStore) Clear(_ context.Context) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.ClearErr != nil {
		return fs.ClearErr
	}
	fs.clears++
	fs.session = nil
	return nil
}

// Set seeds the store with a session, bypassing Save accounting.
func (fs *FakeStore) Set(session *credentials.Session) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.session = session
}

// Saves reports how many successful writes happened.
func (fs *FakeStore) Saves() int {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	return fs.saves
}

// Clears reports how many successful clears happened.
func (fs *FakeStore) Clears() int {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	return fs.clears
}

// Current returns the stored session, nil when empty.
func (fs *FakeStore) Current() *credentials.Session {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	return fs.session
}
