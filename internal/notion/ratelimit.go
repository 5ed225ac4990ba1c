package notion

import (
	"sync"
	"time"
)

// Limiter paces outgoing remote calls. It guarantees that the starts of two
// consecutive permitted calls are at least 1/rps apart, and optionally caps
// how many calls may start within any rolling one-second window.
//
// Wait must be called once per attempt, retries included: every attempt pays
// its own pacing slot. The limiter performs no I/O; its only side effect is
// advancing the last-call watermark.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	burst    int
	last     time.Time
	window   []time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithBurst caps call starts at n within any rolling one-second window.
// Zero disables the window quota.
func WithBurst(n int) LimiterOption {
	return func(l *Limiter) {
		l.burst = n
	}
}

// WithClock replaces the wall clock and sleeper, for deterministic tests.
func WithClock(now func() time.Time, sleep func(time.Duration)) LimiterOption {
	return func(l *Limiter) {
		l.now = now
		l.sleep = sleep
	}
}

// NewLimiter creates a limiter pacing calls to requestsPerSecond.
// A non-positive rate disables pacing entirely.
func NewLimiter(requestsPerSecond float64, opts ...LimiterOption) *Limiter {
	l := &Limiter{
		now:   time.Now,
		sleep: time.Sleep,
	}
	if requestsPerSecond > 0 {
		l.interval = time.Duration(float64(time.Second) / requestsPerSecond)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wait blocks the caller just long enough to honor the configured rate and,
// when set, the rolling-window burst quota.
func (l *Limiter) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if l.interval > 0 && !l.last.IsZero() {
		if wait := l.interval - now.Sub(l.last); wait > 0 {
			l.sleep(wait)
			now = now.Add(wait)
		}
	}

	if l.burst > 0 {
		l.pruneWindow(now)
		if len(l.window) >= l.burst {
			if wait := l.window[0].Add(time.Second).Sub(now); wait > 0 {
				l.sleep(wait)
				now = now.Add(wait)
			}
			l.pruneWindow(now)
		}
		l.window = append(l.window, now)
	}

	l.last = now
}

// pruneWindow drops call starts older than one second.
func (l *Limiter) pruneWindow(now time.Time) {
	cutoff := now.Add(-time.Second)
	kept := l.window[:0]
	for _, t := range l.window {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.window = kept
}
