package identity

import (
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes the bearer token for one profile. The token is a
// single line in the profile's credentials file; login writes it, logout
// and a backend 401 clear it.
type Store struct {
	path string
}

// NewStore creates a credential store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Token returns the stored bearer token, or empty if none is stored.
func (s *Store) Token() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Save persists the token with owner-only permissions.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token+"\n"), 0600)
}

// Clear removes the stored token. Safe to call when none exists.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}

// UserID resolves the viewer identity from the stored token.
func (s *Store) UserID() string {
	return UserID(s.Token())
}
