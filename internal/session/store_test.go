package session

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "readmeforge/internal/errors"
)

var testSecret = []byte(strings.Repeat("k", 32))

func newTestStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "sessions.db"), testSecret, time.Hour, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestNewStore(t *testing.T) {
	t.Run("should reject a secret that is not 32 bytes", func(t *testing.T) {
		_, err := NewStore(filepath.Join(t.TempDir(), "sessions.db"), []byte("too-short"), time.Hour)

		assert.ErrorIs(t, err, domainErrors.ErrSessionSecretInvalid)
	})

	t.Run("should create missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state", "nested", "sessions.db")

		store, err := NewStore(path, testSecret, time.Hour)

		require.NoError(t, err)
		require.NoError(t, store.Close())
		assert.FileExists(t, path)
	})
}

func TestStore_CreateAndLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the decrypted session while it is live", func(t *testing.T) {
		store := newTestStore(t)

		created, err := store.Create(ctx, "octocat", "gho_secret_token")
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		found, err := store.Lookup(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, "octocat", found.Login)
		assert.Equal(t, "gho_secret_token", found.Token)
		assert.WithinDuration(t, created.ExpiresAt, found.ExpiresAt, time.Second)
	})

	t.Run("should never store the raw token", func(t *testing.T) {
		store := newTestStore(t)

		created, err := store.Create(ctx, "octocat", "gho_secret_token")
		require.NoError(t, err)

		var record SessionModel
		require.NoError(t, store.db.Where("id = ?", created.ID).First(&record).Error)

		assert.NotContains(t, string(record.Token), "gho_secret_token")
	})

	t.Run("should treat an unknown id as not logged in", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.Lookup(ctx, "ffffffff-0000-0000-0000-000000000000")

		assert.ErrorIs(t, err, domainErrors.ErrAuthRequired)
	})

	t.Run("should treat an empty id as not logged in", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.Lookup(ctx, "")

		assert.ErrorIs(t, err, domainErrors.ErrAuthRequired)
	})

	t.Run("should expire sessions past their ttl and drop the row", func(t *testing.T) {
		current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		store := newTestStore(t, WithClock(func() time.Time { return current }))

		created, err := store.Create(ctx, "octocat", "gho_secret_token")
		require.NoError(t, err)

		current = current.Add(2 * time.Hour)

		_, err = store.Lookup(ctx, created.ID)
		assert.ErrorIs(t, err, domainErrors.ErrSessionExpired)

		// The expired row was deleted, so a retry reads as never logged in.
		_, err = store.Lookup(ctx, created.ID)
		assert.ErrorIs(t, err, domainErrors.ErrAuthRequired)
	})

	t.Run("should end the session when the stored token was tampered with", func(t *testing.T) {
		store := newTestStore(t)

		created, err := store.Create(ctx, "octocat", "gho_secret_token")
		require.NoError(t, err)

		var record SessionModel
		require.NoError(t, store.db.Where("id = ?", created.ID).First(&record).Error)
		record.Token[len(record.Token)-1] ^= 0xff
		require.NoError(t, store.db.Model(&SessionModel{}).Where("id = ?", created.ID).Update("token", record.Token).Error)

		_, err = store.Lookup(ctx, created.ID)

		assert.ErrorIs(t, err, domainErrors.ErrSessionExpired)
	})

	t.Run("should end sessions sealed under a rotated secret", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sessions.db")

		oldStore, err := NewStore(path, testSecret, time.Hour)
		require.NoError(t, err)
		created, err := oldStore.Create(ctx, "octocat", "gho_secret_token")
		require.NoError(t, err)
		require.NoError(t, oldStore.Close())

		rotated, err := NewStore(path, []byte(strings.Repeat("r", 32)), time.Hour)
		require.NoError(t, err)
		t.Cleanup(func() { _ = rotated.Close() })

		_, err = rotated.Lookup(ctx, created.ID)

		assert.ErrorIs(t, err, domainErrors.ErrSessionExpired)
	})
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("should end the session", func(t *testing.T) {
		store := newTestStore(t)

		created, err := store.Create(ctx, "octocat", "gho_secret_token")
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, created.ID))

		_, err = store.Lookup(ctx, created.ID)
		assert.ErrorIs(t, err, domainErrors.ErrAuthRequired)
	})

	t.Run("should not fail on an unknown id", func(t *testing.T) {
		store := newTestStore(t)

		assert.NoError(t, store.Delete(ctx, "ffffffff-0000-0000-0000-000000000000"))
	})
}

func TestStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("should sweep only the sessions past their expiry", func(t *testing.T) {
		current := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		store := newTestStore(t, WithClock(func() time.Time { return current }))

		stale, err := store.Create(ctx, "octocat", "token-a")
		require.NoError(t, err)

		current = current.Add(30 * time.Minute)
		live, err := store.Create(ctx, "octocat", "token-b")
		require.NoError(t, err)

		current = current.Add(45 * time.Minute)

		swept, err := store.DeleteExpired(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(1), swept)

		_, err = store.Lookup(ctx, stale.ID)
		assert.ErrorIs(t, err, domainErrors.ErrAuthRequired)

		found, err := store.Lookup(ctx, live.ID)
		require.NoError(t, err)
		assert.Equal(t, "token-b", found.Token)
	})

	t.Run("should report zero on an empty store", func(t *testing.T) {
		store := newTestStore(t)

		swept, err := store.DeleteExpired(ctx)

		require.NoError(t, err)
		assert.Zero(t, swept)
	})
}

func TestTokenCrypto(t *testing.T) {
	var key [keySize]byte
	copy(key[:], testSecret)

	t.Run("should round-trip a token", func(t *testing.T) {
		box, err := sealToken(&key, "gho_secret_token")
		require.NoError(t, err)

		token, err := openToken(&key, box)

		require.NoError(t, err)
		assert.Equal(t, "gho_secret_token", token)
	})

	t.Run("should produce a fresh box for every seal", func(t *testing.T) {
		first, err := sealToken(&key, "gho_secret_token")
		require.NoError(t, err)
		second, err := sealToken(&key, "gho_secret_token")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("should reject a box shorter than the nonce", func(t *testing.T) {
		_, err := openToken(&key, []byte("tiny"))

		assert.ErrorIs(t, err, domainErrors.ErrSessionExpired)
	})

	t.Run("should reject a flipped ciphertext bit", func(t *testing.T) {
		box, err := sealToken(&key, "gho_secret_token")
		require.NoError(t, err)
		box[nonceSize] ^= 0x01

		_, err = openToken(&key, box)

		assert.ErrorIs(t, err, domainErrors.ErrSessionExpired)
	})
}
