// Package session holds the session identity of one application run.
//
// A Store is built explicitly and handed to whoever needs it: the login
// success path writes to it, the access guard and the pages read from it.
package session

import (
	"fmt"
	"sync"

	"github.com/99minutos/staff-portal/internal/core/domain"
)

// Listener is notified after every identity change.
type Listener func(prev, next domain.SessionIdentity)

// Writer is the mutation side of a Store, handed to the login form.
type Writer interface {
	SignIn(identity domain.SessionIdentity) error
}

// Reader is the read side of a Store.
type Reader interface {
	Current() domain.SessionIdentity
}

// Store is a reactive holder for the current session identity.
type Store struct {
	mu        sync.RWMutex
	identity  domain.SessionIdentity
	listeners map[int]Listener
	nextID    int
}

// NewStore returns an anonymous store.
func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Restore returns a store already holding identity, as decoded from a
// session token. Listeners are not involved since nothing changed.
func Restore(identity domain.SessionIdentity) (*Store, error) {
	if err := identity.Validate(); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	s := NewStore()
	s.identity = identity
	return s, nil
}

// Current returns the identity held by the store.
func (s *Store) Current() domain.SessionIdentity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// SignIn replaces the identity with an authenticated one. Role and username
// are swapped in together.
func (s *Store) SignIn(identity domain.SessionIdentity) error {
	if !identity.Authenticated() {
		return fmt.Errorf("sign in: %w", domain.ErrInvalidIdentity)
	}
	if err := identity.Validate(); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	s.set(identity)
	return nil
}

// SignOut returns the store to the anonymous identity.
func (s *Store) SignOut() {
	s.set(domain.Anonymous)
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) set(next domain.SessionIdentity) {
	s.mu.Lock()
	prev := s.identity
	s.identity = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	if prev == next {
		return
	}
	for _, l := range listeners {
		l(prev, next)
	}
}
