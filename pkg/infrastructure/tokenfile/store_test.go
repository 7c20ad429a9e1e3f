package tokenfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFile(path)

	t.Run("Missing file is empty", func(t *testing.T) {
		tokens, err := store.Load()
		require.NoError(t, err)
		assert.True(t, tokens.Empty())
	})

	t.Run("Save and load", func(t *testing.T) {
		saved := Tokens{AccessToken: "Bearer abc", RefreshToken: "def"}
		require.NoError(t, store.Save(saved))

		tokens, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, saved, tokens)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("Clear removes file", func(t *testing.T) {
		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Corrupt file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{"), 0600))
		_, err := store.Load()
		assert.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory(Tokens{RefreshToken: "r"})

	tokens, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "r", tokens.RefreshToken)

	require.NoError(t, store.Clear())
	tokens, _ = store.Load()
	assert.True(t, tokens.Empty())
}
