package credentials

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps the session record in a single JSON file inside the
// application's own data directory. Writes are atomic (tmp, fsync, rename)
// with 0600 permissions so a crashed write can never leave a torn record.
type FileStore struct {
	path   string
	sealer *sealer
	logger zerolog.Logger
	mu     sync.Mutex
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithPassphrase seals the record at rest with a key derived from the
// passphrase. An empty passphrase leaves the record in plaintext.
func WithPassphrase(passphrase string) FileStoreOption {
	return func(fs *FileStore) {
		if passphrase != "" {
			fs.sealer = newSealer(passphrase)
		}
	}
}

// WithStoreLogger overrides the diagnostics logger.
func WithStoreLogger(logger zerolog.Logger) FileStoreOption {
	return func(fs *FileStore) {
		fs.logger = logger
	}
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string, options ...FileStoreOption) *FileStore {
	fs := &FileStore{
		path:   path,
		logger: log.Logger,
	}
	for _, opt := range options {
		opt(fs)
	}
	return fs
}

// Save serializes the session and writes it, overwriting any prior record.
// Partial sessions are rejected before anything touches the disk.
func (fs *FileStore) Save(_ context.Context, session Session) error {
	if !session.Complete() {
		return &StorageError{Op: "write", Err: errIncompleteSession}
	}

	data, err := json.Marshal(session)
	if err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	if fs.sealer != nil {
		data, err = fs.sealer.seal(data)
		if err != nil {
			return &StorageError{Op: "write", Err: err}
		}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	if err := fs.writeAtomic(data); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// Load returns the stored session, or nil if no record exists. A record
// that cannot be read, deserialized, or unsealed is treated as absence.
func (fs *FileStore) Load(_ context.Context) (*Session, error) {
	fs.mu.Lock()
	data, err := os.ReadFile(fs.path)
	fs.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read", Err: err}
	}

	if fs.sealer != nil {
		data, err = fs.sealer.open(data)
		if err != nil {
			fs.logger.Warn().Err(err).Str("path", fs.path).
				Msg("stored credentials could not be unsealed, treating as absent")
			return nil, nil
		}
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		fs.logger.Warn().Err(err).Str("path", fs.path).
			Msg("stored credentials are corrupt, treating as absent")
		return nil, nil
	}
	if !session.Complete() {
		fs.logger.Warn().Str("path", fs.path).
			Msg("stored credentials are partial, treating as absent")
		return nil, nil
	}
	return &session, nil
}

// Clear removes the record. Clearing an already-empty store is not an error.
func (fs *FileStore) Clear(_ context.Context) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}

// writeAtomic writes data to a temp file, fsyncs it, and renames it over
// the target path. On any error the temp file is cleaned up.
func (fs *FileStore) writeAtomic(data []byte) error {
	tmpPath := fs.path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := f.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, fs.path)
}
