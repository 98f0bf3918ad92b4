package core

import (
	"fmt"
	"sync"
)

// ExpandableList holds the open/closed state of an accordion. Items are
// independent: any number of them may be open at once.
type ExpandableList struct {
	mu       sync.Mutex
	expanded []bool
}

func NewExpandableList(n int) *ExpandableList {
	if n < 0 {
		n = 0
	}
	return &ExpandableList{expanded: make([]bool, n)}
}

// Toggle flips item i and returns its new state
func (l *ExpandableList) Toggle(i int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.expanded) {
		return false, fmt.Errorf("toggle item %d of %d: %w", i, len(l.expanded), ErrIndexOutOfRange)
	}
	l.expanded[i] = !l.expanded[i]
	return l.expanded[i], nil
}

func (l *ExpandableList) Expanded(i int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.expanded) {
		return false, fmt.Errorf("item %d of %d: %w", i, len(l.expanded), ErrIndexOutOfRange)
	}
	return l.expanded[i], nil
}

func (l *ExpandableList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.expanded)
}

// Snapshot returns a copy of every item's state
func (l *ExpandableList) Snapshot() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]bool, len(l.expanded))
	copy(out, l.expanded)
	return out
}
