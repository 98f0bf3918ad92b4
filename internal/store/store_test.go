package store

import (
	"path/filepath"
	"testing"
	"time"

	"manual-estoico-landing/internal/core"
)

var _ core.Store = (*Store)(nil)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestClickLedger(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	clicks := []*core.Click{
		{ID: "c1", VisitorID: "v1", CTA: core.CTAHero, Locale: "pt", CreatedAt: base},
		{ID: "c2", VisitorID: "v2", CTA: core.CTAPricing, Locale: "en", CreatedAt: base.Add(time.Minute)},
		{ID: "c3", VisitorID: "v1", CTA: core.CTAHero, Locale: "pt", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, c := range clicks {
		if err := s.CreateClick(c); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.GetClickCountsByCTA()
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 || stats[0] != (core.CTAStat{CTA: core.CTAHero, Clicks: 2}) || stats[1] != (core.CTAStat{CTA: core.CTAPricing, Clicks: 1}) {
		t.Fatalf("stats = %+v", stats)
	}

	recent, err := s.GetRecentClicks(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].ID != "c3" || recent[1].ID != "c2" {
		t.Fatalf("recent = %+v %+v", recent[0], recent[1])
	}
	if recent[1].Locale != "en" || !recent[1].CreatedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("click round trip = %+v", recent[1])
	}
}

func TestCreateClickRejectsDuplicateID(t *testing.T) {
	s := newTestStore(t)
	c := &core.Click{ID: "dup", VisitorID: "v", CTA: core.CTAFinal, Locale: "pt", CreatedAt: time.Now()}
	if err := s.CreateClick(c); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateClick(c); err == nil {
		t.Fatal("expected a primary key violation")
	}
}

func TestBonusUnlocksAreOncePerVisitor(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	first, err := s.RecordBonusUnlock("v1", now)
	if err != nil || !first {
		t.Fatalf("first unlock = %v, %v", first, err)
	}
	again, err := s.RecordBonusUnlock("v1", now.Add(time.Hour))
	if err != nil || again {
		t.Fatalf("repeat unlock = %v, %v", again, err)
	}
	if _, err := s.RecordBonusUnlock("v2", now); err != nil {
		t.Fatal(err)
	}

	n, err := s.CountBonusUnlocks()
	if err != nil || n != 2 {
		t.Fatalf("CountBonusUnlocks() = %d, %v", n, err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := NewStore(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		s.Close()
	}
}
