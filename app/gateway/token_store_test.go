package gateway

import (
	"os"
	"path/filepath"
	"testing"

	"study-auth/app/utils/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_SaveLoadClear(t *testing.T) {
	testLogger, err := logger.New("error")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.token")
	store := NewTokenStore(path, testLogger)

	assert.Empty(t, store.Load())

	store.Save("token-123")
	assert.Equal(t, "token-123", store.Load())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "token-123", string(data))

	store.Clear()
	assert.Empty(t, store.Load())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestTokenStore_RestoresPersistedToken(t *testing.T) {
	testLogger, err := logger.New("error")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.token")
	require.NoError(t, os.WriteFile(path, []byte("persisted-token\n"), 0o600))

	store := NewTokenStore(path, testLogger)
	assert.Equal(t, "persisted-token", store.Load())
}

func TestTokenStore_MemoryOnlyWhenPathEmpty(t *testing.T) {
	testLogger, err := logger.New("error")
	require.NoError(t, err)

	store := NewTokenStore("", testLogger)

	store.Save("ephemeral")
	assert.Equal(t, "ephemeral", store.Load())

	store.Clear()
	assert.Empty(t, store.Load())
}

func TestTokenStore_PersistenceFailureDegradesToMemory(t *testing.T) {
	testLogger, err := logger.New("error")
	require.NoError(t, err)

	// A directory at the token path makes the write fail.
	dir := t.TempDir()
	store := NewTokenStore(dir, testLogger)

	store.Save("still-usable")
	assert.Equal(t, "still-usable", store.Load())
}
