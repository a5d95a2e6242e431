package credentials_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/scibiz/eventapp/credentials"
	"github.com/stretchr/testify/require"
)

const (
	testToken = "tok1"
	testEmail = "a@b.com"
)

func newTestStore(t *testing.T, options ...credentials.FileStoreOption) (*credentials.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auth.json")
	return credentials.NewFileStore(path, options...), path
}

func completeSession() credentials.Session {
	return credentials.Session{
		Token:    testToken,
		Identity: credentials.Identity{Email: testEmail},
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, completeSession()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, testToken, loaded.Token)
	require.Equal(t, testEmail, loaded.Identity.Email)
}

func TestFileStore_LoadEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestFileStore_LoadCorruptRecordIsAbsence(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestFileStore_LoadPartialRecordIsAbsence(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)

	// Token without identity violates the all-or-nothing invariant.
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"tok1","identity":{"email":""}}`), 0o600))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestFileStore_SaveRejectsPartialSession(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)

	err := store.Save(ctx, credentials.Session{Token: testToken})
	require.Error(t, err)

	var storageErr *credentials.StorageError
	require.ErrorAs(t, err, &storageErr)
	require.Equal(t, "write", storageErr.Op)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "partial session must not reach disk")
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, completeSession()))

	second := credentials.Session{
		Token:    "tok2",
		Identity: credentials.Identity{Email: "c@d.com"},
	}
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok2", loaded.Token)
	require.Equal(t, "c@d.com", loaded.Identity.Email)
}

func TestFileStore_ClearIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Clear(ctx), "clearing an empty store is not an error")

	require.NoError(t, store.Save(ctx, completeSession()))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestFileStore_FilePermissions(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)

	require.NoError(t, store.Save(ctx, completeSession()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_SealedRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t, credentials.WithPassphrase("correct horse"))

	require.NoError(t, store.Save(ctx, completeSession()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), testToken, "sealed record must not expose the token")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, testToken, loaded.Token)
}

func TestFileStore_SealedWrongPassphraseIsAbsence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "auth.json")

	writer := credentials.NewFileStore(path, credentials.WithPassphrase("correct horse"))
	require.NoError(t, writer.Save(ctx, completeSession()))

	reader := credentials.NewFileStore(path, credentials.WithPassphrase("battery staple"))
	loaded, err := reader.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}
