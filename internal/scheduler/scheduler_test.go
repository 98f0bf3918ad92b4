package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

type countingHousekeeper struct {
	runs atomic.Int32
}

func (c *countingHousekeeper) EvictIdleViews() int {
	c.runs.Add(1)
	return 2
}

type sumRecorder struct {
	total atomic.Int32
}

func (r *sumRecorder) ViewsEvicted(n int) {
	r.total.Add(int32(n))
}

func TestRunHousekeeping(t *testing.T) {
	h := &countingHousekeeper{}
	rec := &sumRecorder{}
	runHousekeeping(h, rec)
	runHousekeeping(h, nil)

	if h.runs.Load() != 2 || rec.total.Load() != 2 {
		t.Fatalf("runs=%d evicted=%d", h.runs.Load(), rec.total.Load())
	}
}

func TestHousekeepingJobRuns(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	h := &countingHousekeeper{}
	if err := s.AddHousekeeping(20*time.Millisecond, h, nil); err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer s.Shutdown()

	deadline := time.Now().Add(2 * time.Second)
	for h.runs.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("housekeeping job never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
