package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "secret key is empty"},
		{name: "whitespace", key: "   ", wantErr: "secret key is empty"},
		{name: "absolute", key: "/absolute/path", wantErr: "invalid secret key"},
		{name: "parent", key: "../escape", wantErr: "invalid secret key"},
		{name: "dot", key: ".", wantErr: "invalid secret key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := store.Put(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestFileStoreRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewFileStore(root)

	require.NoError(t, store.Put(context.Background(), "auth-token", "header.payload.sig"))
	require.NoError(t, store.Put(context.Background(), "auth-token", "rotated"))

	value, err := store.Get(context.Background(), "auth-token")
	require.NoError(t, err)
	assert.Equal(t, "rotated", value)

	info, err := os.Stat(filepath.Join(root, "auth-token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreMissingSecretIsNotFound(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())

	_, err := store.Get(context.Background(), "auth-token")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestFileStoreDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())

	require.NoError(t, store.Put(context.Background(), "auth-token", "jwt"))
	require.NoError(t, store.Delete(context.Background(), "auth-token"))
	require.NoError(t, store.Delete(context.Background(), "auth-token"))

	_, err := store.Get(context.Background(), "auth-token")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestFileStoreCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFileStore(t.TempDir()).Put(ctx, "auth-token", "jwt")
	require.ErrorIs(t, err, context.Canceled)
}
