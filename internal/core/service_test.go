package core

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type fakeStore struct {
	mu      sync.Mutex
	clicks  []*Click
	unlocks map[string]time.Time
	failing bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{unlocks: make(map[string]time.Time)}
}

func (f *fakeStore) CreateClick(click *Click) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("disk full")
	}
	f.clicks = append(f.clicks, click)
	return nil
}

func (f *fakeStore) GetClickCountsByCTA() ([]CTAStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, c := range f.clicks {
		counts[c.CTA]++
	}
	var out []CTAStat
	for cta, n := range counts {
		out = append(out, CTAStat{CTA: cta, Clicks: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CTA < out[j].CTA })
	return out, nil
}

func (f *fakeStore) GetRecentClicks(limit int) ([]*Click, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.clicks) {
		limit = len(f.clicks)
	}
	return f.clicks[len(f.clicks)-limit:], nil
}

func (f *fakeStore) RecordBonusUnlock(visitorID string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.unlocks[visitorID]; ok {
		return false, nil
	}
	f.unlocks[visitorID] = at
	return true, nil
}

func (f *fakeStore) CountBonusUnlocks() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.unlocks), nil
}

type fakeRecorder struct {
	mu        sync.Mutex
	clicks    map[string]int
	reveals   int
	completes int
	attached  int
	total     int
}

func (r *fakeRecorder) CTAClicked(cta string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clicks == nil {
		r.clicks = map[string]int{}
	}
	r.clicks[cta]++
}

func (r *fakeRecorder) BonusRevealed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reveals++
}

func (r *fakeRecorder) BonusesCompleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completes++
}

func (r *fakeRecorder) ViewsChanged(attached, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attached, r.total = attached, total
}

type fakeNotifier struct {
	clicks []*Click
}

func (n *fakeNotifier) NotifyClick(click *Click) {
	n.clicks = append(n.clicks, click)
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeRecorder, *clockwork.FakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClock()
	opts := DefaultPageOptions()
	opts.Clock = fc

	store := newFakeStore()
	rec := &fakeRecorder{}
	svc := NewService(store, NewViews(opts, time.Minute), NewNavigator(""))
	svc.SetRecorder(rec)
	return svc, store, rec, fc
}

func TestServiceCheckoutRecordsNavigations(t *testing.T) {
	svc, store, rec, _ := newTestService(t)
	notifier := &fakeNotifier{}
	svc.SetNotifier(notifier)

	action, err := svc.Checkout("visitor-1", CTAPricing, "pt")
	if err != nil {
		t.Fatal(err)
	}
	if action.Kind != ActionNavigate || action.Target != DefaultCheckoutURL {
		t.Fatalf("action = %+v", action)
	}

	action, err = svc.Checkout("visitor-1", CTAWatchVideo, "pt")
	if err != nil {
		t.Fatal(err)
	}
	if action.Kind != ActionScroll {
		t.Fatalf("watch-video action = %+v", action)
	}

	if len(store.clicks) != 1 || store.clicks[0].CTA != CTAPricing || store.clicks[0].VisitorID != "visitor-1" {
		t.Fatalf("clicks = %+v", store.clicks)
	}
	if rec.clicks[CTAPricing] != 1 || len(notifier.clicks) != 1 {
		t.Fatalf("recorder %v notifier %d", rec.clicks, len(notifier.clicks))
	}

	if _, err := svc.Checkout("visitor-1", "bogus", "pt"); !errors.Is(err, ErrUnknownCTA) {
		t.Fatalf("unknown cta err = %v", err)
	}
}

func TestServiceCheckoutSurvivesStoreFailure(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	store.failing = true

	action, err := svc.Checkout("visitor-1", CTAFinal, "en")
	if err != nil {
		t.Fatalf("store failure blocked navigation: %v", err)
	}
	if action.Target != DefaultCheckoutURL {
		t.Fatalf("action = %+v", action)
	}
}

func TestServiceRevealAllRecordsUnlockOnce(t *testing.T) {
	svc, store, rec, _ := newTestService(t)
	viewID, _ := svc.OpenView("visitor-7")

	for _, idx := range []int{2, 0, 4, 4, 1, 3} {
		if _, _, err := svc.RevealBonus(viewID, idx); err != nil {
			t.Fatal(err)
		}
	}
	snap, completed, err := svc.RevealBonus(viewID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if completed || !snap.AllBonusesRevealed {
		t.Fatalf("repeat reveal completed=%v snapshot=%+v", completed, snap)
	}

	if n, _ := store.CountBonusUnlocks(); n != 1 {
		t.Fatalf("unlocks = %d, want 1", n)
	}
	if rec.reveals != BonusSlots || rec.completes != 1 {
		t.Fatalf("recorder reveals=%d completes=%d", rec.reveals, rec.completes)
	}
}

func TestServiceConcurrentRevealCountsOnce(t *testing.T) {
	svc, _, rec, _ := newTestService(t)
	viewID, _ := svc.OpenView("visitor-9")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.RevealBonus(viewID, 2); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.reveals != 1 {
		t.Fatalf("recorder reveals = %d, want 1", rec.reveals)
	}
}

func TestServiceUnknownView(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if _, _, err := svc.RevealBonus("missing", 0); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("RevealBonus err = %v", err)
	}
	if _, err := svc.ToggleFAQ("missing", 0); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("ToggleFAQ err = %v", err)
	}
	if err := svc.CloseNotification("missing"); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("CloseNotification err = %v", err)
	}
	if _, _, err := svc.AttachView(context.Background(), "missing"); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("AttachView err = %v", err)
	}
}

func TestServiceAttachMountsAndEvicts(t *testing.T) {
	svc, _, rec, fc := newTestService(t)
	viewID, page := svc.OpenView("visitor-1")

	_, detachA, err := svc.AttachView(context.Background(), viewID)
	if err != nil {
		t.Fatal(err)
	}
	_, detachB, err := svc.AttachView(context.Background(), viewID)
	if err != nil {
		t.Fatal(err)
	}
	if !page.Mounted() || rec.attached != 1 {
		t.Fatalf("mounted=%v attached=%d", page.Mounted(), rec.attached)
	}

	detachA()
	detachA()
	if !page.Mounted() {
		t.Fatal("page unmounted while a stream is still attached")
	}
	detachB()
	if page.Mounted() {
		t.Fatal("page still mounted after the last stream left")
	}

	if n := svc.EvictIdleViews(); n != 0 {
		t.Fatalf("evicted %d fresh views", n)
	}
	fc.Advance(2 * time.Minute)
	if n := svc.EvictIdleViews(); n != 1 {
		t.Fatalf("evicted %d idle views, want 1", n)
	}
	if rec.total != 0 {
		t.Fatalf("recorder total views = %d", rec.total)
	}
}

func TestServiceStats(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	svc.Checkout("a", CTAHero, "pt")
	svc.Checkout("b", CTAHero, "pt")
	svc.Checkout("b", CTASticky, "en")
	svc.OpenView("a")

	stats, err := svc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalClicks != 3 || len(stats.Clicks) != 2 || stats.OpenViews != 1 || stats.AttachedViews != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	recent, err := svc.RecentClicks(0)
	if err != nil || len(recent) != 3 {
		t.Fatalf("recent = %d, %v", len(recent), err)
	}
}

func TestServiceToggles(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	viewID, page := svc.OpenView("v")

	if open, err := svc.ToggleModule(viewID, 6); err != nil || !open {
		t.Fatalf("ToggleModule = %v, %v", open, err)
	}
	if open, err := svc.ToggleFAQ(viewID, 0); err != nil || !open {
		t.Fatalf("ToggleFAQ = %v, %v", open, err)
	}
	if _, err := svc.ToggleModule(viewID, 7); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("ToggleModule(7) err = %v", err)
	}
	if visible, err := svc.ReportScroll(viewID, -1); err != nil || !visible {
		t.Fatalf("ReportScroll = %v, %v", visible, err)
	}

	snap := page.Snapshot()
	if !snap.Modules[6] || !snap.FAQ[0] || !snap.StickyVisible {
		t.Fatalf("snapshot = %+v", snap)
	}
}
