package core

import (
	"fmt"
	"sync"
)

// BonusSlots is the number of revealable bonus cards
const BonusSlots = 5

// HiddenValueLabel is shown in place of any value that is not disclosed yet
const HiddenValueLabel = "???"

// DefaultBonusTotal is the aggregate value disclosed once every bonus is revealed
const DefaultBonusTotal = "R$98"

// BonusReveal tracks which bonus cards have been revealed. Slots only move
// from hidden to revealed; completion fires once, on the transition to all
// revealed.
type BonusReveal struct {
	mu         sync.Mutex
	revealed   [BonusSlots]bool
	complete   bool
	totalValue string
	onComplete func()
}

// NewBonusReveal creates an all-hidden set. onComplete may be nil.
func NewBonusReveal(totalValue string, onComplete func()) *BonusReveal {
	if totalValue == "" {
		totalValue = DefaultBonusTotal
	}
	return &BonusReveal{totalValue: totalValue, onComplete: onComplete}
}

// Reveal discloses slot i. Revealing an already revealed slot is a no-op.
// completed is true only for the call that revealed the last hidden slot.
func (b *BonusReveal) Reveal(i int) (completed bool, err error) {
	_, completed, err = b.Disclose(i)
	return completed, err
}

// Disclose is Reveal that also reports whether this call changed slot i
func (b *BonusReveal) Disclose(i int) (changed, completed bool, err error) {
	if i < 0 || i >= BonusSlots {
		return false, false, fmt.Errorf("reveal bonus %d: %w", i, ErrIndexOutOfRange)
	}

	b.mu.Lock()
	changed = !b.revealed[i]
	b.revealed[i] = true
	if !b.complete && allTrue(b.revealed[:]) {
		b.complete = true
		completed = true
	}
	onComplete := b.onComplete
	b.mu.Unlock()

	if completed && onComplete != nil {
		onComplete()
	}
	return changed, completed, nil
}

func (b *BonusReveal) Revealed(i int) bool {
	if i < 0 || i >= BonusSlots {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revealed[i]
}

func (b *BonusReveal) AllRevealed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.complete
}

// TotalValueLabel returns the aggregate value, or the placeholder while any
// bonus is still hidden
func (b *BonusReveal) TotalValueLabel() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.complete {
		return HiddenValueLabel
	}
	return b.totalValue
}

func (b *BonusReveal) Snapshot() []bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]bool, BonusSlots)
	copy(out, b.revealed[:])
	return out
}

func allTrue(v []bool) bool {
	for _, ok := range v {
		if !ok {
			return false
		}
	}
	return true
}
