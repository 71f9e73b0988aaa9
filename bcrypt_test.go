package authkit_test

import (
	"testing"

	"github.com/oshimizu/authkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes a password", func(t *testing.T) {
		hash, err := authkit.HashPassword("Abcd123!")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "Abcd123!", hash)
	})

	t.Run("rejects the empty string", func(t *testing.T) {
		_, err := authkit.HashPassword("")
		assert.ErrorIs(t, err, authkit.ErrNoEmptyString)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		h1, err := authkit.HashPassword("Abcd123!")
		require.NoError(t, err)
		h2, err := authkit.HashPassword("Abcd123!")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := authkit.HashPassword("Abcd123!")
	require.NoError(t, err)

	t.Run("matches the original password", func(t *testing.T) {
		assert.NoError(t, authkit.ComparePasswordAndHash("Abcd123!", hash))
	})

	t.Run("rejects a different password", func(t *testing.T) {
		err := authkit.ComparePasswordAndHash("Abcd123?", hash)
		assert.ErrorIs(t, err, authkit.ErrMismatchedHashAndPassword)
	})

	t.Run("rejects a mangled hash", func(t *testing.T) {
		assert.Error(t, authkit.ComparePasswordAndHash("Abcd123!", "not-a-hash"))
	})
}
