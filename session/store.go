package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the session as a single JSON file, the local-storage
// equivalent for a non-browser client. Token and profile are written and
// cleared together; there is no partial state on disk.
type Store struct {
	path string

	mu  sync.Mutex
	cur *Session
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the session file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "coursectl", "session.json"), nil
}

func (s *Store) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	s.cur = &sess
	return nil
}

func (s *Store) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != nil {
		return *s.cur, nil
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("reading session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, fmt.Errorf("decoding session file: %w", err)
	}
	if sess.Token == "" {
		return Session{}, ErrNoSession
	}

	s.cur = &sess
	return sess, nil
}

// Token returns the current auth token, or the empty string when no session
// is active.
func (s *Store) Token() string {
	sess, err := s.Load()
	if err != nil {
		return ""
	}
	return sess.Token
}

// Clear removes token and cached profile together.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
