package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerCountdown(t *testing.T) {
	clk := NewFake(time.Unix(1000, 0))
	tm := New(clk)

	tm.Countdown(500 * time.Millisecond)
	assert.False(t, tm.Expired())
	assert.Equal(t, 500*time.Millisecond, tm.Left())
	assert.Equal(t, uint32(500), tm.LeftMS())

	clk.Advance(200 * time.Millisecond)
	assert.Equal(t, 300*time.Millisecond, tm.Left())

	clk.Advance(300 * time.Millisecond)
	assert.True(t, tm.Expired())
	assert.Equal(t, time.Duration(0), tm.Left())

	clk.Advance(time.Second)
	assert.Equal(t, time.Duration(0), tm.Left(), "remaining time is clamped at zero")
}

func TestTimerCountdownMS(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	tm := New(clk)

	tm.CountdownMS(1500)
	assert.Equal(t, time.Unix(1, 500_000_000), tm.Deadline())
}

func TestTimerZeroBudgetIsExpired(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	tm := New(clk)

	tm.Countdown(0)
	assert.True(t, tm.Expired())

	tm.Countdown(-time.Second)
	assert.True(t, tm.Expired())
}

func TestTimerUnarmed(t *testing.T) {
	clk := NewFake(time.Unix(50, 0))
	tm := New(clk)

	assert.True(t, tm.Expired())
	assert.Equal(t, clk.Now(), tm.Deadline())

	tm.Countdown(time.Minute)
	tm.Stop()
	assert.True(t, tm.Expired())
}

func TestZeroValueTimer(t *testing.T) {
	var tm Timer
	assert.True(t, tm.Expired())

	tm.Countdown(time.Hour)
	assert.False(t, tm.Expired())
}

func TestRealClockAdvances(t *testing.T) {
	clk := Real()
	a := clk.Now()
	time.Sleep(time.Millisecond)
	assert.True(t, clk.Now().After(a))
}

func TestFakeSet(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	clk.Set(time.Unix(42, 0))
	assert.Equal(t, time.Unix(42, 0), clk.Now())
}
