package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Views is the registry of open page views. A view is opened per page load
// and mounted while at least one event stream is attached to it.
type Views struct {
	mu    sync.Mutex
	opts  PageOptions
	ttl   time.Duration
	views map[string]*view
}

type view struct {
	page      *LandingPage
	visitorID string
	attached  int
	lastSeen  time.Time
}

// NewViews creates a registry. Views with no stream attached that were not
// touched for ttl are dropped by EvictIdle.
func NewViews(opts PageOptions, ttl time.Duration) *Views {
	opts = opts.withDefaults()
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Views{
		opts:  opts,
		ttl:   ttl,
		views: make(map[string]*view),
	}
}

// Open creates a fresh page for visitorID and returns its view id
func (v *Views) Open(visitorID string) (string, *LandingPage) {
	id := uuid.NewString()
	page := NewLandingPage(v.opts)

	v.mu.Lock()
	v.views[id] = &view{page: page, visitorID: visitorID, lastSeen: v.opts.Clock.Now()}
	v.mu.Unlock()

	return id, page
}

// Get returns the page of view id and marks it as recently used
func (v *Views) Get(id string) (*LandingPage, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	vw, ok := v.views[id]
	if !ok {
		return nil, fmt.Errorf("view %q: %w", id, ErrViewNotFound)
	}
	vw.lastSeen = v.opts.Clock.Now()
	return vw.page, nil
}

// VisitorOf returns the visitor that opened view id
func (v *Views) VisitorOf(id string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	vw, ok := v.views[id]
	if !ok {
		return "", fmt.Errorf("view %q: %w", id, ErrViewNotFound)
	}
	return vw.visitorID, nil
}

// Attach mounts the page of view id if this is its first stream. The
// returned detach func unmounts it again when the last stream leaves.
func (v *Views) Attach(ctx context.Context, id string) (*LandingPage, func(), error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	vw, ok := v.views[id]
	if !ok {
		return nil, nil, fmt.Errorf("attach view %q: %w", id, ErrViewNotFound)
	}
	if vw.attached == 0 {
		// the page outlives any single stream, so it is not bound to ctx
		if err := vw.page.Mount(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, ErrAlreadyMounted) {
			return nil, nil, fmt.Errorf("mount view %q: %w", id, err)
		}
	}
	vw.attached++
	vw.lastSeen = v.opts.Clock.Now()

	var once sync.Once
	detach := func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()

			vw.attached--
			vw.lastSeen = v.opts.Clock.Now()
			if vw.attached == 0 {
				vw.page.Unmount()
			}
		})
	}
	return vw.page, detach, nil
}

// EvictIdle drops unattached views idle for longer than the ttl and returns
// how many were removed
func (v *Views) EvictIdle() int {
	now := v.opts.Clock.Now()

	v.mu.Lock()
	defer v.mu.Unlock()

	removed := 0
	for id, vw := range v.views {
		if vw.attached == 0 && now.Sub(vw.lastSeen) > v.ttl {
			delete(v.views, id)
			removed++
		}
	}
	return removed
}

// Counts returns the number of attached views and of views in memory
func (v *Views) Counts() (attached, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, vw := range v.views {
		if vw.attached > 0 {
			attached++
		}
	}
	return attached, len(v.views)
}
