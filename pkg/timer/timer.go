// Package timer provides the countdown timer used to bound blocking
// transport operations.
//
// A Timer captures a single deadline. Every blocking step asks the timer
// how much time is left and treats a non-positive remainder as a timeout:
//
//	t := timer.New(clk)
//	t.Countdown(params.Timeout)
//	for !done {
//	    if t.Expired() {
//	        return status.TLSReadTimeout
//	    }
//	    conn.SetReadDeadline(time.Now().Add(t.Left()))
//	    ...
//	}
package timer

import "time"

// Timer is a countdown to a fixed deadline.
// The zero value has no deadline set and reports itself as expired.
type Timer struct {
	clock    Clock
	deadline time.Time
	armed    bool
}

// New creates an unarmed timer reading from clock.
// A nil clock selects Real.
func New(clock Clock) *Timer {
	if clock == nil {
		clock = Real()
	}
	return &Timer{clock: clock}
}

// Countdown arms the timer to expire d from now.
// A zero or negative d leaves the timer already expired.
func (t *Timer) Countdown(d time.Duration) {
	t.deadline = t.now().Add(d)
	t.armed = true
}

// CountdownMS arms the timer to expire ms milliseconds from now.
func (t *Timer) CountdownMS(ms uint32) {
	t.Countdown(time.Duration(ms) * time.Millisecond)
}

// Left returns the remaining time, clamped at zero.
func (t *Timer) Left() time.Duration {
	if !t.armed {
		return 0
	}
	left := t.deadline.Sub(t.now())
	if left < 0 {
		return 0
	}
	return left
}

// LeftMS returns the remaining time in whole milliseconds.
func (t *Timer) LeftMS() uint32 {
	return uint32(t.Left() / time.Millisecond)
}

// Expired reports whether no time is left.
func (t *Timer) Expired() bool {
	return t.Left() <= 0
}

// Deadline returns the absolute deadline. An unarmed timer returns the
// current time so that deadlines derived from it fire immediately.
func (t *Timer) Deadline() time.Time {
	if !t.armed {
		return t.now()
	}
	return t.deadline
}

// Stop disarms the timer.
func (t *Timer) Stop() {
	t.armed = false
	t.deadline = time.Time{}
}

func (t *Timer) now() time.Time {
	if t.clock == nil {
		return time.Now()
	}
	return t.clock.Now()
}
