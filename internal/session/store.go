package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a live session held in a Store.
type Entry[T any] struct {
	ID        string
	CreatedAt time.Time
	Value     T
}

// Store keeps sessions from creation on flow entry until they are destroyed
// on completion or logout. Nothing survives a restart.
type Store[T any] struct {
	mu       sync.RWMutex
	sessions map[string]*Entry[T]
	onDelete func(T)
}

// NewStore takes an optional hook run on every removed value.
func NewStore[T any](onDelete func(T)) *Store[T] {
	return &Store[T]{sessions: make(map[string]*Entry[T]), onDelete: onDelete}
}

// Create registers a value built from the new session id.
func (s *Store[T]) Create(build func(id string) T) *Entry[T] {
	e := &Entry[T]{ID: uuid.NewString(), CreatedAt: time.Now()}
	e.Value = build(e.ID)

	s.mu.Lock()
	s.sessions[e.ID] = e
	s.mu.Unlock()
	return e
}

func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		var zero T
		return zero, ErrSessionNotFound
	}
	return e.Value, nil
}

func (s *Store[T]) Delete(id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	if s.onDelete != nil {
		s.onDelete(e.Value)
	}
	return nil
}

// DeleteFunc destroys every session whose value matches and reports how many
// were removed.
func (s *Store[T]) DeleteFunc(match func(T) bool) int {
	s.mu.Lock()
	var removed []*Entry[T]
	for id, e := range s.sessions {
		if match(e.Value) {
			removed = append(removed, e)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	if s.onDelete != nil {
		for _, e := range removed {
			s.onDelete(e.Value)
		}
	}
	return len(removed)
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close destroys every session.
func (s *Store[T]) Close() {
	s.mu.Lock()
	entries := s.sessions
	s.sessions = make(map[string]*Entry[T])
	s.mu.Unlock()

	if s.onDelete == nil {
		return
	}
	for _, e := range entries {
		s.onDelete(e.Value)
	}
}
