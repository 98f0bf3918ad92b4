package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestBonusRevealOrderAndLabel(t *testing.T) {
	completions := 0
	b := NewBonusReveal(DefaultBonusTotal, func() { completions++ })

	order := []int{2, 0, 4, 1, 3}
	for i, idx := range order {
		completed, err := b.Reveal(idx)
		if err != nil {
			t.Fatalf("Reveal(%d): %v", idx, err)
		}
		last := i == len(order)-1
		if completed != last {
			t.Errorf("Reveal(%d) completed = %v, want %v", idx, completed, last)
		}
		want := HiddenValueLabel
		if last {
			want = DefaultBonusTotal
		}
		if got := b.TotalValueLabel(); got != want {
			t.Errorf("after revealing %v label = %q, want %q", order[:i+1], got, want)
		}
	}
	if completions != 1 {
		t.Errorf("completion fired %d times, want 1", completions)
	}
}

func TestBonusRevealDuplicatesFireOnce(t *testing.T) {
	orders := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{1, 1, 3, 0, 3, 2, 4, 4, 0},
	}
	for _, order := range orders {
		completions := 0
		b := NewBonusReveal("", func() { completions++ })
		for _, idx := range order {
			if _, err := b.Reveal(idx); err != nil {
				t.Fatal(err)
			}
		}
		// revealing again after completion changes nothing
		b.Reveal(0)

		if completions != 1 {
			t.Errorf("order %v: completion fired %d times", order, completions)
		}
		for i, ok := range b.Snapshot() {
			if !ok {
				t.Errorf("order %v: slot %d not revealed", order, i)
			}
		}
	}
}

func TestBonusDiscloseReportsChangeOnce(t *testing.T) {
	b := NewBonusReveal(DefaultBonusTotal, nil)

	var changed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := b.Disclose(1)
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				changed.Add(1)
			}
		}()
	}
	wg.Wait()

	if n := changed.Load(); n != 1 {
		t.Fatalf("%d calls reported a change, want 1", n)
	}
	if !b.Revealed(1) {
		t.Fatal("slot 1 not revealed")
	}
}

func TestBonusRevealOutOfRange(t *testing.T) {
	b := NewBonusReveal("", nil)
	for _, idx := range []int{-1, BonusSlots} {
		if _, err := b.Reveal(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Reveal(%d) err = %v", idx, err)
		}
	}
}

func TestExpandableItemsAreIndependent(t *testing.T) {
	const n = 7
	for i := 0; i < n; i++ {
		l := NewExpandableList(n)
		// open a few others first so "unchanged" covers both states
		l.Toggle((i + 1) % n)
		l.Toggle((i + 3) % n)
		before := l.Snapshot()

		if _, err := l.Toggle(i); err != nil {
			t.Fatal(err)
		}
		after := l.Snapshot()
		for j := 0; j < n; j++ {
			if j == i {
				if after[j] == before[j] {
					t.Errorf("item %d did not toggle", i)
				}
				continue
			}
			if after[j] != before[j] {
				t.Errorf("toggling %d changed item %d", i, j)
			}
		}
	}
}

func TestExpandableToggleTwiceCloses(t *testing.T) {
	l := NewExpandableList(2)
	open, _ := l.Toggle(1)
	if !open {
		t.Fatal("first toggle should open")
	}
	open, _ = l.Toggle(1)
	if open {
		t.Fatal("second toggle should close")
	}
	if _, err := l.Toggle(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("Toggle(2) err = %v", err)
	}
}

func TestScrollObserverOffsets(t *testing.T) {
	tests := []struct {
		bottom float64
		want   bool
	}{
		{50, false},
		{0, false},
		{-1, true},
		{-500, true},
	}

	var o ScrollObserver
	for _, tt := range tests {
		visible, _ := o.Observe(tt.bottom)
		if visible != tt.want || o.Visible() != tt.want {
			t.Errorf("Observe(%v) = %v, want %v", tt.bottom, visible, tt.want)
		}
	}
}

func TestScrollObserverIdempotent(t *testing.T) {
	var o ScrollObserver
	if _, changed := o.Observe(-10); !changed {
		t.Fatal("first crossing should report a change")
	}
	for i := 0; i < 5; i++ {
		if _, changed := o.Observe(-10); changed {
			t.Fatal("repeated measurement reported a change")
		}
	}
}

func TestNotificationAutoHide(t *testing.T) {
	fc := clockwork.NewFakeClock()
	changes := make(chan bool, 4)
	n := NewNotificationScheduler(fc, 5*time.Second, func(v bool) { changes <- v })

	n.Show()
	if !n.Visible() || !<-changes {
		t.Fatal("Show did not make the toast visible")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := fc.BlockUntilContext(ctx, 1); err != nil {
		t.Fatal(err)
	}
	fc.Advance(5 * time.Second)

	select {
	case v := <-changes:
		if v {
			t.Fatal("auto-hide reported visible")
		}
	case <-ctx.Done():
		t.Fatal("auto-hide did not fire")
	}
	if n.Visible() {
		t.Fatal("toast still visible after auto-hide")
	}
}

func TestNotificationCloseBeforeDelay(t *testing.T) {
	fc := clockwork.NewFakeClock()
	n := NewNotificationScheduler(fc, 5*time.Second, nil)

	n.Show()
	fc.Advance(2 * time.Second)
	if !n.Close() {
		t.Fatal("Close should report the toast was visible")
	}
	if n.Visible() {
		t.Fatal("toast visible after Close")
	}
	if n.Close() {
		t.Fatal("second Close should be a no-op")
	}
}

func TestNotificationStaleHideIgnored(t *testing.T) {
	fc := clockwork.NewFakeClock()
	n := NewNotificationScheduler(fc, 5*time.Second, nil)

	n.Show()
	fc.Advance(3 * time.Second)
	n.Close()
	n.Show()
	// the first show's deadline passes; the second show is only 2s old
	fc.Advance(2 * time.Second)
	time.Sleep(10 * time.Millisecond)
	if !n.Visible() {
		t.Fatal("stale auto-hide hid a newer toast")
	}
}

func TestBroadcasterDropsWhenFull(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(1)

	b.Publish(Event{Kind: EventCountdown})
	b.Publish(Event{Kind: EventSpots})

	if ev := <-ch; ev.Kind != EventCountdown {
		t.Fatalf("got %s, want the first event", ev.Kind)
	}
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %s", ev.Kind)
	default:
	}

	cancel()
	cancel()
	if b.Len() != 0 {
		t.Fatalf("Len() = %d after cancel", b.Len())
	}
	if _, ok := <-ch; ok {
		t.Fatal("channel not closed after cancel")
	}
	b.Publish(Event{Kind: EventSpots})
}

func TestParticlesStayInRange(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		for _, p := range Particles(seed, 20) {
			if p.Size < 5 || p.Size >= 15 {
				t.Errorf("seed %d: size %v out of range", seed, p.Size)
			}
			if p.Top < 0 || p.Top >= 100 || p.Left < 0 || p.Left >= 100 {
				t.Errorf("seed %d: position %v,%v out of range", seed, p.Top, p.Left)
			}
			if p.Duration < 3 || p.Duration >= 8 {
				t.Errorf("seed %d: duration %v out of range", seed, p.Duration)
			}
		}
	}
	if len(Particles(1, -3)) != 0 {
		t.Error("negative count should yield no particles")
	}
}

func TestNavigatorCatalogue(t *testing.T) {
	n := NewNavigator("")
	if n.CheckoutURL() != DefaultCheckoutURL {
		t.Fatalf("CheckoutURL() = %q", n.CheckoutURL())
	}

	for _, cta := range n.CTAs() {
		switch cta.Action.Kind {
		case ActionScroll:
			if cta.Action.Href() != "#"+VideoAnchor {
				t.Errorf("%s scrolls to %q", cta.Name, cta.Action.Href())
			}
		case ActionNavigate:
			if cta.Action.Href() != DefaultCheckoutURL {
				t.Errorf("%s navigates to %q", cta.Name, cta.Action.Href())
			}
		default:
			t.Errorf("%s has kind %q", cta.Name, cta.Action.Kind)
		}
	}

	if c, err := n.Resolve(CTAWatchVideo); err != nil || c.Action.Kind != ActionScroll {
		t.Errorf("Resolve(watch-video) = %+v, %v", c, err)
	}
	if _, err := n.Resolve("nope"); !errors.Is(err, ErrUnknownCTA) {
		t.Errorf("Resolve(nope) err = %v", err)
	}
}
