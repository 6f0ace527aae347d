// Package session holds the authenticated user and the live practice session
// status. A Store is created once and handed to whoever needs it; it lives
// from Init at login until Teardown at logout.
package session

import (
	"sync"

	"github.com/nadelab/radar/pkg/core"
)

// Snapshot is a copy of the store's state.
type Snapshot struct {
	User   *core.User
	Status *core.SessionStatus
}

// Store reconciles session status updates arriving from polling and pushes.
type Store struct {
	// changeMu serialises changes together with their notifications, so
	// subscribers see accepted updates in the order they were applied.
	changeMu sync.Mutex

	mu     sync.RWMutex
	active bool
	user   core.User
	status *core.SessionStatus

	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore creates an inactive store.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(Snapshot))}
}

// Init starts a new login. Any previous session status is dropped.
func (s *Store) Init(user core.User) {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	s.mu.Lock()
	s.active = true
	s.user = user
	s.status = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Teardown ends the login. Updates applied afterwards are ignored.
func (s *Store) Teardown() {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.user = core.User{}
	s.status = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Apply merges a status update and reports whether it was accepted. Updates
// for the current session must carry a strictly newer version; a different
// session ID replaces the current one.
func (s *Store) Apply(status core.SessionStatus) bool {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return false
	}
	if cur := s.status; cur != nil && cur.ID == status.ID && status.Version <= cur.Version {
		s.mu.Unlock()
		return false
	}
	st := status
	s.status = &st
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// Current returns a copy of the store's state.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Active reports whether a user is logged in.
func (s *Store) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Subscribe registers fn for every accepted change and returns a function
// that removes it. Callbacks run on the goroutine that made the change, in
// the order changes were accepted, and must not change the store themselves.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotLocked() Snapshot {
	var snap Snapshot
	if s.active {
		u := s.user
		snap.User = &u
	}
	if s.status != nil {
		st := *s.status
		snap.Status = &st
	}
	return snap
}

func (s *Store) notify(snap Snapshot) {
	s.mu.RLock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}
