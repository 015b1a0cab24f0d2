package questionnaire

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// RealClock reads the wall clock.
var RealClock Clock = ClockFunc(time.Now)

// Tracker measures time spent on the current question. At most one
// interval is open; opening a new one discards the previous.
type Tracker struct {
	clock   Clock
	start   time.Time
	section Section
	index   int
	open    bool
}

// NewTracker creates a Tracker reading from clock.
func NewTracker(clock Clock) *Tracker {
	if clock == nil {
		clock = RealClock
	}
	return &Tracker{clock: clock}
}

// Open starts an interval for the question at (section, index).
func (t *Tracker) Open(section Section, index int) {
	t.start = t.clock.Now()
	t.section = section
	t.index = index
	t.open = true
}

// IsOpen reports whether an interval is running for (section, index).
func (t *Tracker) IsOpen(section Section, index int) bool {
	return t.open && t.section == section && t.index == index
}

// Close ends the open interval and returns its length in whole seconds.
// It returns 0 when no interval is open or the clock went backwards.
func (t *Tracker) Close() int {
	if !t.open {
		return 0
	}
	t.open = false
	elapsed := t.clock.Now().Sub(t.start)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / time.Second)
}
