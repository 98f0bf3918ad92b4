package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Store interface defines the methods required from the storage layer
type Store interface {
	// Click ledger
	CreateClick(click *Click) error
	GetClickCountsByCTA() ([]CTAStat, error)
	GetRecentClicks(limit int) ([]*Click, error)

	// Bonus unlocks
	RecordBonusUnlock(visitorID string, at time.Time) (bool, error)
	CountBonusUnlocks() (int, error)
}

// Recorder receives operational counters. The metrics package implements it.
type Recorder interface {
	CTAClicked(cta string)
	BonusRevealed()
	BonusesCompleted()
	ViewsChanged(attached, total int)
}

// ClickNotifier is told about every outbound checkout click
type ClickNotifier interface {
	NotifyClick(click *Click)
}

// Service provides the landing page operations to the web and bot layers
type Service struct {
	store     Store
	views     *Views
	navigator *Navigator
	clock     clockwork.Clock
	recorder  Recorder
	notifier  ClickNotifier
}

// NewService creates a new Service instance
func NewService(store Store, views *Views, navigator *Navigator) *Service {
	return &Service{
		store:     store,
		views:     views,
		navigator: navigator,
		clock:     views.opts.Clock,
	}
}

// SetRecorder attaches a metrics recorder
func (s *Service) SetRecorder(r Recorder) {
	s.recorder = r
}

// SetNotifier attaches a click notifier
func (s *Service) SetNotifier(n ClickNotifier) {
	s.notifier = n
}

// Navigator returns the CTA catalogue
func (s *Service) Navigator() *Navigator {
	return s.navigator
}

// OpenView creates a fresh page for a page load
func (s *Service) OpenView(visitorID string) (string, *LandingPage) {
	id, page := s.views.Open(visitorID)
	page.OnBonusesComplete(func() {
		s.recordUnlock(visitorID)
	})
	s.viewsChanged()
	return id, page
}

// View returns the page of an open view
func (s *Service) View(viewID string) (*LandingPage, error) {
	return s.views.Get(viewID)
}

// ViewOwner returns the visitor that opened a view
func (s *Service) ViewOwner(viewID string) (string, error) {
	return s.views.VisitorOf(viewID)
}

// AttachView mounts a view for the lifetime of an event stream
func (s *Service) AttachView(ctx context.Context, viewID string) (*LandingPage, func(), error) {
	page, detach, err := s.views.Attach(ctx, viewID)
	if err != nil {
		return nil, nil, err
	}
	s.viewsChanged()
	return page, func() {
		detach()
		s.viewsChanged()
	}, nil
}

// RevealBonus reveals bonus index on a view
func (s *Service) RevealBonus(viewID string, index int) (Snapshot, bool, error) {
	page, err := s.views.Get(viewID)
	if err != nil {
		return Snapshot{}, false, err
	}

	changed, completed, err := page.discloseBonus(index)
	if err != nil {
		return Snapshot{}, false, err
	}
	if changed && s.recorder != nil {
		s.recorder.BonusRevealed()
	}
	return page.Snapshot(), completed, nil
}

// ToggleModule flips a course module accordion item
func (s *Service) ToggleModule(viewID string, index int) (bool, error) {
	page, err := s.views.Get(viewID)
	if err != nil {
		return false, err
	}
	return page.ToggleModule(index)
}

// ToggleFAQ flips a FAQ accordion item
func (s *Service) ToggleFAQ(viewID string, index int) (bool, error) {
	page, err := s.views.Get(viewID)
	if err != nil {
		return false, err
	}
	return page.ToggleFAQ(index)
}

// ReportScroll feeds a scroll measurement and returns the sticky bar state
func (s *Service) ReportScroll(viewID string, anchorBottom float64) (bool, error) {
	page, err := s.views.Get(viewID)
	if err != nil {
		return false, err
	}
	return page.ReportScroll(anchorBottom), nil
}

// CloseNotification hides the purchase toast of a view
func (s *Service) CloseNotification(viewID string) error {
	page, err := s.views.Get(viewID)
	if err != nil {
		return err
	}
	page.CloseNotification()
	return nil
}

// Checkout resolves a CTA and records the click when it leaves the page.
// Ledger failures are logged and never block the navigation.
func (s *Service) Checkout(visitorID, ctaName, locale string) (Action, error) {
	cta, err := s.navigator.Resolve(ctaName)
	if err != nil {
		return Action{}, err
	}
	if cta.Action.Kind != ActionNavigate {
		return cta.Action, nil
	}

	click := &Click{
		ID:        uuid.NewString(),
		VisitorID: visitorID,
		CTA:       cta.Name,
		Locale:    locale,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.store.CreateClick(click); err != nil {
		logrus.WithError(err).WithField("cta", cta.Name).Error("failed to record checkout click")
	}
	if s.recorder != nil {
		s.recorder.CTAClicked(cta.Name)
	}
	if s.notifier != nil {
		s.notifier.NotifyClick(click)
	}
	return cta.Action, nil
}

// Stats aggregates the ledgers with the live view counts
func (s *Service) Stats() (*Stats, error) {
	clicks, err := s.store.GetClickCountsByCTA()
	if err != nil {
		return nil, fmt.Errorf("failed to load click counts: %w", err)
	}
	unlocks, err := s.store.CountBonusUnlocks()
	if err != nil {
		return nil, fmt.Errorf("failed to count bonus unlocks: %w", err)
	}

	stats := &Stats{Clicks: clicks, BonusUnlocks: unlocks}
	for _, c := range clicks {
		stats.TotalClicks += c.Clicks
	}
	stats.AttachedViews, stats.OpenViews = s.views.Counts()
	return stats, nil
}

// RecentClicks returns the latest checkout clicks, newest first
func (s *Service) RecentClicks(limit int) ([]*Click, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.GetRecentClicks(limit)
}

// EvictIdleViews drops idle views and returns how many were removed
func (s *Service) EvictIdleViews() int {
	removed := s.views.EvictIdle()
	if removed > 0 {
		s.viewsChanged()
	}
	return removed
}

func (s *Service) recordUnlock(visitorID string) {
	if s.recorder != nil {
		s.recorder.BonusesCompleted()
	}
	first, err := s.store.RecordBonusUnlock(visitorID, s.clock.Now().UTC())
	if err != nil {
		logrus.WithError(err).WithField("visitor", visitorID).Error("failed to record bonus unlock")
		return
	}
	logrus.WithFields(logrus.Fields{"visitor": visitorID, "first": first}).Info("all bonuses unlocked")
}

func (s *Service) viewsChanged() {
	if s.recorder == nil {
		return
	}
	attached, total := s.views.Counts()
	s.recorder.ViewsChanged(attached, total)
}
