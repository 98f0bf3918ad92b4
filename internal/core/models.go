package core

import (
	"errors"
	"time"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrAlreadyMounted  = errors.New("page already mounted")
	ErrUnknownCTA      = errors.New("unknown call-to-action")
	ErrViewNotFound    = errors.New("view not found")
)

// EventKind names the state change carried by an Event
type EventKind string

const (
	EventSnapshot      EventKind = "snapshot"
	EventCountdown     EventKind = "countdown"
	EventSpots         EventKind = "spots"
	EventNotification  EventKind = "notification"
	EventSticky        EventKind = "sticky"
	EventBonus         EventKind = "bonus"
	EventBonusComplete EventKind = "bonus-complete"
	EventExpand        EventKind = "expand"
)

// Event is published by a LandingPage after every state change.
// State is the full page snapshot taken right after the change.
type Event struct {
	Kind  EventKind
	State Snapshot
}

// Snapshot is a point-in-time copy of every widget on a page
type Snapshot struct {
	Countdown           CountdownValue
	SpotsLeft           int
	NotificationVisible bool
	StickyVisible       bool
	Bonuses             []bool
	AllBonusesRevealed  bool
	BonusTotalLabel     string
	Modules             []bool
	FAQ                 []bool
}

// Click represents one outbound call-to-action activation
type Click struct {
	ID        string
	VisitorID string
	CTA       string
	Locale    string
	CreatedAt time.Time
}

// CTAStat is the number of recorded clicks for one CTA
type CTAStat struct {
	CTA    string
	Clicks int
}

// Stats aggregates the ledgers and the live view registry
type Stats struct {
	Clicks        []CTAStat
	TotalClicks   int
	BonusUnlocks  int
	AttachedViews int
	OpenViews     int
}
