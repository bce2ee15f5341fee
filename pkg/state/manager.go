package state

import (
	"context"
	"sync"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
)

/*
Store holds every Task currently known to the dispatch core, keyed by its
ID. It has no opinion about state transitions (the dispatch core's
concern) or durability; the store only fetches, upserts, and deletes.

A task that isn't present is an empty result, not an error: the single
error kind a Store produces is *StoreError (unavailable), and the
in-memory implementation never actually returns one. Alternate backends
use it for connectivity failures.
*/
type Store struct {
	mu     sync.RWMutex
	states map[string]*a2a.Task
}

// NewStore returns an empty, ready-to-use Store.
func NewStore() *Store {
	return &Store{
		states: make(map[string]*a2a.Task),
	}
}

// Fetch returns the task with the given id, or nil if it isn't known.
func (s *Store) Fetch(ctx context.Context, id string) (*a2a.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.states[id], nil
}

// Upsert stores task, overwriting whatever was previously stored under
// the same ID, and returns the stored task. Last writer wins; there is no
// compare-and-swap.
func (s *Store) Upsert(ctx context.Context, task *a2a.Task) (*a2a.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[task.ID] = task
	return task, nil
}

// Delete removes and returns the task with the given id. Deleting an id
// that isn't present is not an error; it returns nil.
func (s *Store) Delete(ctx context.Context, id string) (*a2a.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.states[id]
	delete(s.states, id)
	return task, nil
}

// StoreError is the single error kind a store produces: the backend was
// unavailable. Missing tasks are not errors.
type StoreError struct {
	Cause error
}

func (e *StoreError) Error() string {
	return "store unavailable: " + e.Cause.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
