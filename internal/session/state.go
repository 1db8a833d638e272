// Package session holds the owner-side display state and the lifetime countdown that ends it.
package session

import "sync"

const (
	// InitialCounter gives a fresh session exactly one duration cycle.
	InitialCounter = 1
	// MaxCounter caps how far refreshes can extend the countdown.
	MaxCounter = 2
)

// Snapshot is a consistent read of the shared state.
type Snapshot struct {
	Label     string
	Counter   int
	Refreshes int
	Expired   bool
}

// State is the label and lifetime counter shared by the refresh listener, the
// lifetime supervisor, and the display loop. All access goes through one mutex.
type State struct {
	mu        sync.Mutex
	label     string
	counter   int
	refreshes int
	expired   bool
}

// NewState creates owner state showing label with one pending cycle.
func NewState(label string) *State {
	return &State{label: label, counter: InitialCounter}
}

// Label returns the current label text.
func (s *State) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// Counter returns the remaining duration cycles.
func (s *State) Counter() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Snapshot returns all fields read under one critical section.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Label:     s.label,
		Counter:   s.counter,
		Refreshes: s.refreshes,
		Expired:   s.expired,
	}
}

// Refresh replaces the label and extends the countdown by one cycle, saturating at
// MaxCounter. It reports false once the session has expired.
func (s *State) Refresh(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired {
		return false
	}
	s.label = label
	s.refreshes++
	if s.counter < MaxCounter {
		s.counter++
	}
	return true
}

// tick consumes one cycle and returns what is left. Reaching zero expires the state.
func (s *State) tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counter > 0 {
		s.counter--
	}
	if s.counter == 0 {
		s.expired = true
	}
	return s.counter
}
