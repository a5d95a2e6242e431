package credentials

import (
	"context"
	"fmt"
)

// Store persists at most one Session record. Implementations hold no
// business logic: token freshness is the session manager's concern.
//
// Load treats a missing, corrupt, or partial record as absence and returns
// (nil, nil); the caller must never crash on bad local state. Clear is
// idempotent.
type Store interface {
	Save(ctx context.Context, session Session) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

// StorageError reports a failed read, write, or clear of the underlying
// storage medium. Writes surface it as login failure; clears are treated
// as best-effort by callers.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("credential storage %s failed", e.Op)
	}
	return fmt.Sprintf("credential storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
