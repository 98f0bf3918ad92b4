package core

import "sync"

// MinSpots is the floor of the scarcity counter
const MinSpots = 1

// DefaultSpotsInitial is the number of spots a fresh view starts with
const DefaultSpotsInitial = 37

// Scarcity is the "spots left" counter shown in the header badge and pricing CTA
type Scarcity struct {
	mu    sync.Mutex
	spots int
}

// NewScarcity creates a counter; initial values below the floor are raised to it
func NewScarcity(initial int) *Scarcity {
	if initial < MinSpots {
		initial = MinSpots
	}
	return &Scarcity{spots: initial}
}

// Tick removes one spot while more than the floor remain
func (s *Scarcity) Tick() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spots <= MinSpots {
		return s.spots, false
	}
	s.spots--
	return s.spots, true
}

func (s *Scarcity) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spots
}
