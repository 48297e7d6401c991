// Package session holds the administrator's bearer credential for the
// lifetime of an authenticated session. It is explicit process state with
// defined init (Set, on login success) and teardown (Clear or Expire)
// transitions, injected into the Remote Store client instead of being read
// from ambient storage.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

type Store struct {
	mu      sync.Mutex
	token   string
	path    string
	expired func()
}

// New returns an in-memory store with no active session.
func New() *Store {
	return &Store{}
}

// NewFile returns a store persisted at path, preloading any token saved by a
// previous session.
func NewFile(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", path, err)
	}

	var saved struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("session: parse %s: %w", path, err)
	}
	s.token = saved.Token
	return s, nil
}

// OnExpired registers the hook run when the Remote Store signals that the
// session is no longer valid. The presentation layer uses it to navigate
// back to the login entry point.
func (s *Store) OnExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = fn
}

// Set records the token obtained at login.
func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if s.path == "" {
		return nil
	}

	data, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("session: write %s: %w", s.path, err)
	}
	return nil
}

// Token returns the current credential, or "" when no session is active.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) Active() bool {
	return s.Token() != ""
}

// Clear destroys the credential (logout).
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

// Expire destroys the credential and runs the expiry hook. The Remote Store
// client calls this on any 401 from an authenticated request.
func (s *Store) Expire() {
	s.mu.Lock()
	_ = s.clearLocked()
	fn := s.expired
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (s *Store) clearLocked() error {
	s.token = ""
	if s.path == "" {
		return nil
	}
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
