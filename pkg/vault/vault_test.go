package vault

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupTestVault(t *testing.T, master string) (context.Context, *Vault) {
	t.Helper()
	dir := t.TempDir()

	db, err := sql.Open("sqlite", filepath.Join(dir, "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, SetupSchema(db))

	salt, err := LoadOrCreateSalt(filepath.Join(dir, "key.salt"))
	require.NoError(t, err)

	v, err := New(db, []byte(master), salt)
	require.NoError(t, err)
	t.Cleanup(v.Close)

	return context.Background(), v
}

func TestVaultRoundTrip(t *testing.T) {
	ctx, v := setupTestVault(t, "correct horse")

	require.NoError(t, v.Store(ctx, "GitHub", "octocat", "s3cret"))

	username, secret, err := v.Retrieve(ctx, "github")
	require.NoError(t, err)
	assert.Equal(t, "octocat", username)
	assert.Equal(t, "s3cret", secret)
}

func TestVaultOverwrite(t *testing.T) {
	ctx, v := setupTestVault(t, "master")

	require.NoError(t, v.Store(ctx, "mail", "old", "first"))
	require.NoError(t, v.Store(ctx, "mail", "new", "second"))

	username, secret, err := v.Retrieve(ctx, "mail")
	require.NoError(t, err)
	assert.Equal(t, "new", username)
	assert.Equal(t, "second", secret)
}

func TestVaultNotFound(t *testing.T) {
	ctx, v := setupTestVault(t, "master")

	_, _, err := v.Retrieve(ctx, "nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVaultWrongMasterPassword(t *testing.T) {
	dir := t.TempDir()

	db, err := sql.Open("sqlite", filepath.Join(dir, "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, SetupSchema(db))

	salt, err := LoadOrCreateSalt(filepath.Join(dir, "key.salt"))
	require.NoError(t, err)

	ctx := context.Background()

	good, err := New(db, []byte("right password"), salt)
	require.NoError(t, err)
	require.NoError(t, good.Store(ctx, "bank", "alice", "pin1234"))
	good.Close()

	bad, err := New(db, []byte("wrong password"), salt)
	require.NoError(t, err)
	t.Cleanup(bad.Close)

	_, _, err = bad.Retrieve(ctx, "bank")
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestVaultDelete(t *testing.T) {
	ctx, v := setupTestVault(t, "master")

	require.NoError(t, v.Store(ctx, "forum", "bob", "hunter2"))

	removed, err := v.Delete(ctx, "forum")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = v.Delete(ctx, "forum")
	require.NoError(t, err)
	assert.False(t, removed)

	_, _, err = v.Retrieve(ctx, "forum")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVaultListAndReset(t *testing.T) {
	ctx, v := setupTestVault(t, "master")

	require.NoError(t, v.Store(ctx, "zeta", "u1", "p1"))
	require.NoError(t, v.Store(ctx, "alpha", "u2", "p2"))
	require.NoError(t, v.Store(ctx, "Mid", "u3", "p3"))

	services, err := v.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, services)

	require.NoError(t, v.Reset(ctx))

	services, err = v.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestLoadOrCreateSalt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.salt")

	first, err := LoadOrCreateSalt(path)
	require.NoError(t, err)
	require.Len(t, first, saltSize)

	second, err := LoadOrCreateSalt(path)
	require.NoError(t, err)
	assert.Equal(t, first, second, "salt must be stable across runs")
}
