package core

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// NotificationScheduler drives the social-proof toast. A show arms a one-shot
// auto-hide; a manual close hides at once and disarms it.
type NotificationScheduler struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	duration time.Duration
	visible  bool
	hide     clockwork.Timer
	gen      uint64
	onChange func(visible bool)
}

// NewNotificationScheduler creates a hidden scheduler. onChange, when set, is
// called outside the lock after every visibility transition.
func NewNotificationScheduler(clock clockwork.Clock, duration time.Duration, onChange func(bool)) *NotificationScheduler {
	return &NotificationScheduler{
		clock:    clock,
		duration: duration,
		onChange: onChange,
	}
}

// Show makes the toast visible and (re)arms the auto-hide
func (n *NotificationScheduler) Show() {
	n.mu.Lock()
	n.disarmLocked()
	n.visible = true
	gen := n.gen
	n.hide = n.clock.AfterFunc(n.duration, func() { n.expire(gen) })
	n.mu.Unlock()

	n.notify(true)
}

// Close hides the toast immediately. It returns whether the toast was visible.
func (n *NotificationScheduler) Close() bool {
	n.mu.Lock()
	n.disarmLocked()
	was := n.visible
	n.visible = false
	n.mu.Unlock()

	if was {
		n.notify(false)
	}
	return was
}

func (n *NotificationScheduler) Visible() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visible
}

// expire runs from the auto-hide timer. A timer from an older show is a no-op.
func (n *NotificationScheduler) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || !n.visible {
		n.mu.Unlock()
		return
	}
	n.visible = false
	n.hide = nil
	n.gen++
	n.mu.Unlock()

	n.notify(false)
}

func (n *NotificationScheduler) disarmLocked() {
	if n.hide != nil {
		n.hide.Stop()
		n.hide = nil
	}
	n.gen++
}

func (n *NotificationScheduler) notify(visible bool) {
	if n.onChange != nil {
		n.onChange(visible)
	}
}
