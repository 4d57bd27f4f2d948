package syncer

import (
	"sync"

	"EvalsDashboard/internal/domain"
)

// Snapshot is the derived state handed to readers. It is rebuilt wholesale on
// every accepted sync; consumers never see a half-updated view.
type Snapshot struct {
	Problems  []domain.Problem
	Engineers []domain.Engineer
	Stats     domain.Stats
}

// Store holds the last loaded raw CSV text together with the state derived
// from it. It is an explicit object rather than package-level state so tests
// and multiple service instances stay isolated.
type Store struct {
	mu   sync.RWMutex
	raw  string
	snap Snapshot
}

// NewStore starts empty; the sync service seeds it with the bundled fallback
// dataset so the API has renderable content before the first fetch.
func NewStore() *Store {
	return &Store{}
}

// Raw returns the last retained CSV text.
func (s *Store) Raw() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw
}

// Snapshot returns the current derived state. Slices are copied so callers
// can sort or filter without racing the next swap.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Snapshot{
		Problems:  make([]domain.Problem, len(s.snap.Problems)),
		Engineers: make([]domain.Engineer, len(s.snap.Engineers)),
		Stats:     s.snap.Stats,
	}
	copy(out.Problems, s.snap.Problems)
	copy(out.Engineers, s.snap.Engineers)
	return out
}

// Swap replaces the retained text and derived state atomically.
func (s *Store) Swap(raw string, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = raw
	s.snap = snap
}
