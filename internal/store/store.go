// ABOUTME: Durable storage for the bearer token and cached user profile
// ABOUTME: Persists both as a single JSON file in the XDG config directory

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Role values the backend assigns to users
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrCorrupted indicates the session file exists but cannot be parsed.
// Callers treat this as fatal to the session, not as an absent session.
var ErrCorrupted = errors.New("stored session data is corrupted")

// User is the cached profile persisted alongside the token so identity
// survives a restart without a network round trip. Never authoritative:
// the backend decides what the user may actually do.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the cached profile carries the admin role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// sessionData is the on-disk shape. Token and user live in one file so a
// save or clear can never leave one behind without the other.
type sessionData struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Store reads and writes the session file
type Store struct {
	configDir string
}

// New creates a store rooted at the given config directory
func New(configDir string) *Store {
	return &Store{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "swaphub")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "swaphub")
}

// sessionFile returns the path to the session JSON
func (s *Store) sessionFile() string {
	return filepath.Join(s.configDir, "session.json")
}

// Save writes the token and profile durably as a unit.
// The write goes through a temp file and rename so a crash mid-write
// leaves either the old session or the new one, never a torn state.
func (s *Store) Save(token string, user User) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(sessionData{Token: token, User: user}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := s.sessionFile() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return os.Rename(tmp, s.sessionFile())
}

// SetToken replaces the stored token while preserving the cached profile.
// Used when a response carries a fresh access token mid-session.
func (s *Store) SetToken(token string) error {
	_, user, err := s.Load()
	if err != nil {
		return err
	}
	return s.Save(token, user)
}

// Load reads the stored token and profile. The boolean-style contract is
// expressed through os.ErrNotExist: absent session (missing file or empty
// token) returns that error, unreadable JSON returns ErrCorrupted.
func (s *Store) Load() (string, User, error) {
	data, err := os.ReadFile(s.sessionFile())
	if os.IsNotExist(err) {
		return "", User{}, os.ErrNotExist
	}
	if err != nil {
		return "", User{}, err
	}

	var sess sessionData
	if err := json.Unmarshal(data, &sess); err != nil {
		return "", User{}, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if sess.Token == "" || sess.User.Username == "" {
		return "", User{}, os.ErrNotExist
	}

	return sess.Token, sess.User, nil
}

// Clear removes the session file. Missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.sessionFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
