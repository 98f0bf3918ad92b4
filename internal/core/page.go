package core

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// PageOptions configures the widgets of a LandingPage
type PageOptions struct {
	CountdownStart       CountdownValue
	CountdownTick        time.Duration
	SpotsInitial         int
	ScarcityPeriod       time.Duration
	NotificationPeriod   time.Duration
	NotificationDuration time.Duration
	Modules              int
	FAQ                  int
	BonusTotal           string
	Clock                clockwork.Clock
}

// DefaultPageOptions mirrors the live offer: 11h45m19s deadline, 37 spots
// losing one every 5 minutes, a purchase toast every 45s shown for 5s.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		CountdownStart:       DefaultCountdownStart,
		CountdownTick:        time.Second,
		SpotsInitial:         DefaultSpotsInitial,
		ScarcityPeriod:       5 * time.Minute,
		NotificationPeriod:   45 * time.Second,
		NotificationDuration: 5 * time.Second,
		Modules:              7,
		FAQ:                  5,
		BonusTotal:           DefaultBonusTotal,
		Clock:                clockwork.NewRealClock(),
	}
}

func (o PageOptions) withDefaults() PageOptions {
	d := DefaultPageOptions()
	if o.CountdownTick <= 0 {
		o.CountdownTick = d.CountdownTick
	}
	if o.ScarcityPeriod <= 0 {
		o.ScarcityPeriod = d.ScarcityPeriod
	}
	if o.NotificationPeriod <= 0 {
		o.NotificationPeriod = d.NotificationPeriod
	}
	if o.NotificationDuration <= 0 {
		o.NotificationDuration = d.NotificationDuration
	}
	if o.BonusTotal == "" {
		o.BonusTotal = d.BonusTotal
	}
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	return o
}

// LandingPage owns the state of one rendered view of the sales page.
// Its timers only run between Mount and Unmount.
type LandingPage struct {
	opts  PageOptions
	clock clockwork.Clock

	countdown    *Countdown
	scarcity     *Scarcity
	notification *NotificationScheduler
	scroll       *ScrollObserver
	modules      *ExpandableList
	faq          *ExpandableList
	bonuses      *BonusReveal
	events       *Broadcaster

	mu         sync.Mutex
	mounted    bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	onComplete func()
}

func NewLandingPage(opts PageOptions) *LandingPage {
	opts = opts.withDefaults()
	p := &LandingPage{
		opts:      opts,
		clock:     opts.Clock,
		countdown: NewCountdown(opts.CountdownStart),
		scarcity:  NewScarcity(opts.SpotsInitial),
		scroll:    &ScrollObserver{},
		modules:   NewExpandableList(opts.Modules),
		faq:       NewExpandableList(opts.FAQ),
		events:    NewBroadcaster(),
	}
	p.notification = NewNotificationScheduler(opts.Clock, opts.NotificationDuration, func(bool) {
		p.publish(EventNotification)
	})
	p.bonuses = NewBonusReveal(opts.BonusTotal, p.bonusesCompleted)
	return p
}

// Mount starts the recurring timers. They stop when ctx is done or on Unmount.
func (p *LandingPage) Mount(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mounted {
		return ErrAlreadyMounted
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mounted = true

	p.every(ctx, p.opts.CountdownTick, p.tickCountdown)
	p.every(ctx, p.opts.ScarcityPeriod, p.tickScarcity)
	p.every(ctx, p.opts.NotificationPeriod, p.notification.Show)
	return nil
}

// Unmount cancels every timer and waits for them to return. Unmounting a
// page that is not mounted is a no-op.
func (p *LandingPage) Unmount() {
	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.mounted = false
	p.mu.Unlock()

	p.wg.Wait()
	// nothing would auto-hide a toast left visible across a remount
	p.notification.Close()
}

func (p *LandingPage) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// OnBonusesComplete registers fn to run once when every bonus is revealed
func (p *LandingPage) OnBonusesComplete(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onComplete = fn
}

// Subscribe returns a stream of state changes and a func to stop it
func (p *LandingPage) Subscribe() (<-chan Event, func()) {
	return p.events.Subscribe(16)
}

func (p *LandingPage) Snapshot() Snapshot {
	return Snapshot{
		Countdown:           p.countdown.Value(),
		SpotsLeft:           p.scarcity.Value(),
		NotificationVisible: p.notification.Visible(),
		StickyVisible:       p.scroll.Visible(),
		Bonuses:             p.bonuses.Snapshot(),
		AllBonusesRevealed:  p.bonuses.AllRevealed(),
		BonusTotalLabel:     p.bonuses.TotalValueLabel(),
		Modules:             p.modules.Snapshot(),
		FAQ:                 p.faq.Snapshot(),
	}
}

// RevealBonus discloses bonus i; completed reports whether this call
// revealed the last hidden bonus.
func (p *LandingPage) RevealBonus(i int) (completed bool, err error) {
	_, completed, err = p.discloseBonus(i)
	return completed, err
}

// discloseBonus is RevealBonus that also reports whether slot i was hidden
// before this call
func (p *LandingPage) discloseBonus(i int) (changed, completed bool, err error) {
	changed, completed, err = p.bonuses.Disclose(i)
	if err != nil {
		return false, false, err
	}
	p.publish(EventBonus)
	return changed, completed, nil
}

func (p *LandingPage) ToggleModule(i int) (bool, error) {
	open, err := p.modules.Toggle(i)
	if err != nil {
		return false, err
	}
	p.publish(EventExpand)
	return open, nil
}

func (p *LandingPage) ToggleFAQ(i int) (bool, error) {
	open, err := p.faq.Toggle(i)
	if err != nil {
		return false, err
	}
	p.publish(EventExpand)
	return open, nil
}

// ReportScroll feeds one anchor measurement to the scroll observer
func (p *LandingPage) ReportScroll(anchorBottom float64) bool {
	visible, changed := p.scroll.Observe(anchorBottom)
	if changed {
		p.publish(EventSticky)
	}
	return visible
}

func (p *LandingPage) CloseNotification() bool {
	return p.notification.Close()
}

func (p *LandingPage) tickCountdown() {
	if _, changed := p.countdown.Tick(); changed {
		p.publish(EventCountdown)
	}
}

func (p *LandingPage) tickScarcity() {
	if _, changed := p.scarcity.Tick(); changed {
		p.publish(EventSpots)
	}
}

func (p *LandingPage) bonusesCompleted() {
	p.publish(EventBonusComplete)

	p.mu.Lock()
	fn := p.onComplete
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (p *LandingPage) publish(kind EventKind) {
	p.events.Publish(Event{Kind: kind, State: p.Snapshot()})
}

// every runs fn once per period on its own goroutine until ctx is done.
// Must be called with p.mu held.
func (p *LandingPage) every(ctx context.Context, period time.Duration, fn func()) {
	ticker := p.clock.NewTicker(period)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				fn()
			}
		}
	}()
}
