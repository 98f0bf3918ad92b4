package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Housekeeper drops views nobody is looking at
type Housekeeper interface {
	EvictIdleViews() int
}

// EvictionRecorder is told how many views each housekeeping run removed
type EvictionRecorder interface {
	ViewsEvicted(n int)
}

// Scheduler runs the background jobs of the server
type Scheduler struct {
	sched gocron.Scheduler
}

// New creates a stopped scheduler driven by clock
func New(clock clockwork.Clock) (*Scheduler, error) {
	opts := []gocron.SchedulerOption{}
	if clock != nil {
		opts = append(opts, gocron.WithClock(clock))
	}
	sched, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{sched: sched}, nil
}

// AddHousekeeping evicts idle views every interval
func (s *Scheduler) AddHousekeeping(interval time.Duration, h Housekeeper, rec EvictionRecorder) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			runHousekeeping(h, rec)
		}),
		gocron.WithName("evict-idle-views"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule housekeeping: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Shutdown stops the scheduler and waits for running jobs
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func runHousekeeping(h Housekeeper, rec EvictionRecorder) {
	n := h.EvictIdleViews()
	if rec != nil {
		rec.ViewsEvicted(n)
	}
	if n > 0 {
		logrus.WithField("evicted", n).Info("dropped idle views")
	}
}
