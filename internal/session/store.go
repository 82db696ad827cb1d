// Package session holds the bearer-token session state shared by every page.
// It replaces ambient global auth state with an explicit store that pages and
// the API client are handed, plus change notifications for interested views.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type EventKind string

const (
	EventLogin  EventKind = "login"
	EventLogout EventKind = "logout"
)

// Event describes a session state change delivered to subscribers.
type Event struct {
	Kind EventKind
}

// Store owns the current bearer token, persisted to a file so a session
// survives process restarts.
type Store struct {
	mu          sync.RWMutex
	token       string
	path        string
	nextSubID   int
	subscribers map[int]func(Event)
}

// NewStore creates a Store backed by the given token file. A missing file is
// an empty session, not an error.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:        path,
		subscribers: make(map[int]func(Event)),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading token file: %w", err)
		}
		return s, nil
	}
	s.token = strings.TrimSpace(string(data))
	return s, nil
}

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores and persists a new token, then notifies subscribers.
func (s *Store) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token must not be empty")
	}

	s.mu.Lock()
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("creating token dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("writing token file: %w", err)
	}
	s.token = token
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Kind: EventLogin})
	}
	return nil
}

// Clear forgets the token and removes the persisted copy. Used on explicit
// logout and on fatal bootstrap failures.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.token = ""
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		s.mu.Unlock()
		return fmt.Errorf("removing token file: %w", err)
	}
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Kind: EventLogout})
	}
	return nil
}

// Subscribe registers a callback for session changes and returns its
// unsubscribe function. Callbacks run synchronously after the change is
// already visible through Token().
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// snapshotSubscribers must be called with the lock held.
func (s *Store) snapshotSubscribers() []func(Event) {
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}
