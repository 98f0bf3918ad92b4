package core

import (
	"fmt"
	"sync"
	"time"
)

// CountdownValue is a days/hours/minutes/seconds tuple
type CountdownValue struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// DefaultCountdownStart is the offer deadline shown on every fresh view
var DefaultCountdownStart = CountdownValue{Days: 0, Hours: 11, Minutes: 45, Seconds: 19}

// CountdownFromDuration splits d into whole units. Negative durations yield zero.
func CountdownFromDuration(d time.Duration) CountdownValue {
	if d < 0 {
		d = 0
	}
	return CountdownFromSeconds(int(d / time.Second))
}

// CountdownFromSeconds splits a number of seconds into units
func CountdownFromSeconds(total int) CountdownValue {
	if total < 0 {
		total = 0
	}
	return CountdownValue{
		Days:    total / 86400,
		Hours:   total % 86400 / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

// TotalSeconds returns the value expressed in seconds
func (v CountdownValue) TotalSeconds() int {
	return v.Days*86400 + v.Hours*3600 + v.Minutes*60 + v.Seconds
}

// IsZero reports whether every unit is exhausted
func (v CountdownValue) IsZero() bool {
	return v.Days == 0 && v.Hours == 0 && v.Minutes == 0 && v.Seconds == 0
}

// Decrement returns the value one second later. Each unit borrows from the
// next larger one only when it underflows; zero is absorbing.
func (v CountdownValue) Decrement() CountdownValue {
	if v.IsZero() {
		return v
	}
	if v.Seconds > 0 {
		v.Seconds--
		return v
	}
	v.Seconds = 59
	if v.Minutes > 0 {
		v.Minutes--
		return v
	}
	v.Minutes = 59
	if v.Hours > 0 {
		v.Hours--
		return v
	}
	v.Hours = 23
	// not zero and every smaller unit was empty, so days > 0
	v.Days--
	return v
}

// Units returns the zero-padded labels in display order
func (v CountdownValue) Units() [4]string {
	return [4]string{
		fmt.Sprintf("%02d", v.Days),
		fmt.Sprintf("%02d", v.Hours),
		fmt.Sprintf("%02d", v.Minutes),
		fmt.Sprintf("%02d", v.Seconds),
	}
}

// String formats the value as HH:MM:SS, prefixed with days when there are any
func (v CountdownValue) String() string {
	u := v.Units()
	if v.Days > 0 {
		return fmt.Sprintf("%sd %s:%s:%s", u[0], u[1], u[2], u[3])
	}
	return fmt.Sprintf("%s:%s:%s", u[1], u[2], u[3])
}

// Countdown holds the offer deadline of one view
type Countdown struct {
	mu    sync.Mutex
	value CountdownValue
}

func NewCountdown(start CountdownValue) *Countdown {
	return &Countdown{value: CountdownFromSeconds(start.TotalSeconds())}
}

// Tick advances the countdown by one second and reports whether it moved
func (c *Countdown) Tick() (CountdownValue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.value.Decrement()
	changed := next != c.value
	c.value = next
	return next, changed
}

func (c *Countdown) Value() CountdownValue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
