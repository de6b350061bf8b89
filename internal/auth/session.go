// Package auth persists the signed-in session's bearer token.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kovalyshyn/workvol/internal/common"
	"github.com/kovalyshyn/workvol/internal/service"
)

// Session is the saved authentication state.
type Session struct {
	SignedInAt time.Time `json:"signed_in_at"`
	Token      string    `json:"token"`
	Email      string    `json:"email"`
}

// Store reads and writes the session state file.
type Store struct {
	path string
}

var _ service.TokenStore = (*Store)(nil)

// NewStore creates a session store under the given data directory.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: data directory", common.ErrMissingConfig)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{path: filepath.Join(dataDir, "session.json")}, nil
}

// DefaultDir returns the conventional data directory, honoring
// XDG_DATA_HOME.
func DefaultDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "workvol"), nil
}

// Save persists a freshly issued token.
func (s *Store) Save(token, email string) error {
	session := Session{
		Token:      token,
		Email:      email,
		SignedInAt: time.Now(),
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	slog.Info("Session saved", "email", email, "state_file", s.path)

	return nil
}

// Token returns the saved bearer token, or ErrUnauthenticated when no
// session exists.
func (s *Store) Token() (string, error) {
	session, err := s.load()
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

// Current returns the whole saved session.
func (s *Store) Current() (*Session, error) {
	return s.load()
}

// Clear removes the saved session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Store) load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.Token == "" {
		return nil, common.ErrUnauthenticated
	}

	return &session, nil
}
