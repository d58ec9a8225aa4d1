// Package session persists the admin API bearer token and exposes it to the
// API client through an explicit Session object.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultTokenFileName is the file name used under the data directory.
const DefaultTokenFileName = "token"

// AppDir is the per-user directory name for sitectl data.
const AppDir = "sitectl"

// Store persists a single bearer token.
type Store interface {
	// Read returns the stored token, or "" when none is stored.
	Read() (string, error)
	// Write replaces any stored token.
	Write(token string) error
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// DefaultTokenPath returns $XDG_DATA_HOME/sitectl/token
// (or ~/.local/share/sitectl/token).
func DefaultTokenPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, AppDir, DefaultTokenFileName)
}

// FileStore keeps the token in a file readable only by the owner.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore at path, or at DefaultTokenPath when path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultTokenPath()
	}
	return &FileStore{path: path}
}

// Path returns the token file location.
func (s *FileStore) Path() string {
	return s.path
}

// Read implements Store.
func (s *FileStore) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Write implements Store.
func (s *FileStore) Write(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns a MemoryStore holding token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

// Read implements Store.
func (s *MemoryStore) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Write implements Store.
func (s *MemoryStore) Write(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
