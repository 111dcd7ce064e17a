package gateway

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore holds the current session token in memory and mirrors it to a
// file so sessions survive restarts. Persistence failures degrade to
// memory-only operation; they are logged, never surfaced to callers.
type TokenStore struct {
	mu     sync.RWMutex
	path   string
	token  string
	logger *slog.Logger
}

// NewTokenStore creates a token store backed by the given file path. An
// empty path disables persistence entirely. An existing token file is
// loaded eagerly so a restart resumes the previous session.
func NewTokenStore(path string, logger *slog.Logger) *TokenStore {
	s := &TokenStore{
		path:   path,
		logger: logger.With("component", "token_store"),
	}

	if path == "" {
		return s
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		s.token = strings.TrimSpace(string(data))
	case errors.Is(err, fs.ErrNotExist):
		// no persisted session, nothing to restore
	default:
		s.logger.Warn("session token file unreadable, starting without persisted session",
			"path", path,
			"error", err)
	}

	return s
}

// Load returns the current token, or empty when no session is stored.
func (s *TokenStore) Load() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Save replaces the stored token. The in-memory copy is always updated;
// the file write is best effort.
func (s *TokenStore) Save(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if s.path == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.logger.Warn("session token persistence failed",
			"path", s.path,
			"error", err)
		return
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		s.logger.Warn("session token persistence failed",
			"path", s.path,
			"error", err)
	}
}

// Clear drops the token from memory and removes the token file.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if s.path == "" {
		return
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("session token file removal failed",
			"path", s.path,
			"error", err)
	}
}
