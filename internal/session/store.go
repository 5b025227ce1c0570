package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotLoggedIn indicates no session is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the locally persisted authentication state: the bearer token
// plus the display name shown in the UI. Nothing else is stored client-side.
type Session struct {
	AccessToken string `json:"access_token"`
	DisplayName string `json:"display_name,omitempty"`
}

// Store is the single source of truth for "is a user authenticated" and
// "what token accompanies API calls". Login, registration, and the OAuth
// callback all write through it; the HTTP client and route gating read it.
type Store interface {
	Save(s Session) error
	Load() (Session, error)
	Clear() error
}

// FileStore persists the session as a JSON file, created 0600.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore builds a file-backed session store at path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session file path is required")
	}
	return &FileStore{path: path}, nil
}

// Save writes the session atomically: temp file in the same directory, then
// rename. A half-written session file must never be observable.
func (f *FileStore) Save(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s.AccessToken == "" {
		return errors.New("refusing to save empty access token")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load reads the stored session. The INTERVIEWPRO_TOKEN env var, when set,
// takes precedence over the file so scripts can inject credentials.
func (f *FileStore) Load() (Session, error) {
	if tok := os.Getenv("INTERVIEWPRO_TOKEN"); tok != "" {
		return Session{AccessToken: tok}, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Session{}, ErrNotLoggedIn
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session file: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("parse session file: %w", err)
	}
	if s.AccessToken == "" {
		return Session{}, ErrNotLoggedIn
	}
	return s, nil
}

// Clear removes the stored session. Clearing an absent session is a no-op.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemStore keeps the session in memory. Used by tests and anywhere a
// throwaway store is handy.
type MemStore struct {
	mu      sync.Mutex
	s       Session
	present bool

	// SaveErr, when set, makes Save fail. Lets tests exercise the
	// storage-failure path of the OAuth callback.
	SaveErr error
}

// NewMemStore builds an empty in-memory session store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Save stores the session in memory.
func (m *MemStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.s = s
	m.present = true
	return nil
}

// Load returns the stored session or ErrNotLoggedIn.
func (m *MemStore) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present {
		return Session{}, ErrNotLoggedIn
	}
	return m.s, nil
}

// Clear drops the stored session.
func (m *MemStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = Session{}
	m.present = false
	return nil
}
