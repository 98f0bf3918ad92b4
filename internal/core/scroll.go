package core

import "sync"

// ScrollObserver derives the sticky CTA bar visibility from the tracked
// anchor's bottom offset relative to the viewport top.
type ScrollObserver struct {
	mu      sync.Mutex
	visible bool
}

// Observe records one measurement. The bar is visible iff the anchor's
// bottom edge is above the viewport (negative offset).
func (o *ScrollObserver) Observe(anchorBottom float64) (visible, changed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	visible = anchorBottom < 0
	changed = visible != o.visible
	o.visible = visible
	return visible, changed
}

func (o *ScrollObserver) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}
