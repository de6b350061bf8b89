package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalyshyn/workvol/internal/common"
)

func TestStore_SaveTokenClear(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// No session yet.
	_, err = store.Token()
	assert.True(t, errors.Is(err, common.ErrUnauthenticated))

	require.NoError(t, store.Save("tok-123", "worker@site.ua"))

	token, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	session, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, "worker@site.ua", session.Email)
	assert.False(t, session.SignedInAt.IsZero())

	require.NoError(t, store.Clear())
	_, err = store.Token()
	assert.True(t, errors.Is(err, common.ErrUnauthenticated))

	// Clearing twice is fine.
	assert.NoError(t, store.Clear())
}

func TestStore_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save("tok", "a@b.c"))

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_EmptyTokenIsUnauthenticated(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte(`{"token":""}`), 0o600))

	_, err = store.Token()
	assert.True(t, errors.Is(err, common.ErrUnauthenticated))
}
