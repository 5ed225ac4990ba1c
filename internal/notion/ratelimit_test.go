package notion

import (
	"testing"
	"time"
)

// fakeClock drives a Limiter deterministically: sleeping advances the clock.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	asleep time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept = append(c.slept, d)
	c.asleep += d
}

func TestLimiterSpacing(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(2.5, WithClock(clock.Now, clock.Sleep))

	const calls = 21
	starts := make([]time.Time, 0, calls)
	for i := 0; i < calls; i++ {
		limiter.Wait()
		starts = append(starts, clock.Now())
	}

	minGap := 400 * time.Millisecond
	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(starts[i-1]); gap < minGap {
			t.Errorf("calls %d and %d started %s apart, want >= %s", i-1, i, gap, minGap)
		}
	}

	// 20 gaps of 400ms each.
	if want := 8 * time.Second; clock.asleep < want {
		t.Errorf("total sleep = %s, want >= %s", clock.asleep, want)
	}
}

func TestLimiterFirstCallDoesNotSleep(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(2.5, WithClock(clock.Now, clock.Sleep))

	limiter.Wait()
	if len(clock.slept) != 0 {
		t.Errorf("first call slept %v, want no sleep", clock.slept)
	}
}

func TestLimiterDisabled(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(0, WithClock(clock.Now, clock.Sleep))

	for i := 0; i < 10; i++ {
		limiter.Wait()
	}
	if clock.asleep != 0 {
		t.Errorf("disabled limiter slept %s", clock.asleep)
	}
}

func TestLimiterBurstWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(0, WithBurst(2), WithClock(clock.Now, clock.Sleep))

	limiter.Wait()
	limiter.Wait()
	if clock.asleep != 0 {
		t.Fatalf("first two calls slept %s, want none", clock.asleep)
	}

	// Third call within the same second must wait for the window to roll.
	limiter.Wait()
	if clock.asleep < time.Second {
		t.Errorf("third call slept %s total, want >= 1s", clock.asleep)
	}
}

func TestLimiterBurstWindowRolls(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(0, WithBurst(2), WithClock(clock.Now, clock.Sleep))

	limiter.Wait()
	limiter.Wait()
	clock.now = clock.now.Add(1100 * time.Millisecond)

	before := clock.asleep
	limiter.Wait()
	if clock.asleep != before {
		t.Errorf("call after the window rolled slept %s", clock.asleep-before)
	}
}
