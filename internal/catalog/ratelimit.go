package catalog

import (
	"context"
	"sync/atomic"
	"time"
)

// Default inter-batch delay bounds.
const (
	DefaultMinDelay = 100 * time.Millisecond
	DefaultMaxDelay = 5 * time.Second
)

// Pressure bands: above highPressure the delay grows, below lowPressure it
// shrinks toward the floor.
const (
	highPressure = 0.8
	lowPressure  = 0.5
)

// RateLimiter adapts the delay between dispatched batches to recent system
// pressure. The current delay is stored atomically so Observe and Wait never
// contend on a lock; approximate reads are acceptable.
type RateLimiter struct {
	min time.Duration
	max time.Duration

	// delay is the current inter-batch delay in nanoseconds
	delay atomic.Int64
	// observations counts pressure samples taken
	observations atomic.Uint64

	// sample allows injecting a pressure source for testing
	sample func() float64
}

// NewRateLimiter creates a limiter clamped to [min, max], starting at min.
func NewRateLimiter(min, max time.Duration) *RateLimiter {
	if min <= 0 {
		min = DefaultMinDelay
	}
	if max < min {
		max = min
	}
	l := &RateLimiter{
		min:    min,
		max:    max,
		sample: systemPressure,
	}
	l.delay.Store(int64(min))
	return l
}

// Wait sleeps for the current delay, or returns early with the context's
// error on cancellation.
func (l *RateLimiter) Wait(ctx context.Context) error {
	d := time.Duration(l.delay.Load())
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Observe samples system pressure and adjusts the delay: up under high
// pressure, down toward the floor when pressure is low, always clamped.
func (l *RateLimiter) Observe() {
	l.observations.Add(1)
	p := l.sample()

	cur := time.Duration(l.delay.Load())
	next := cur
	switch {
	case p >= highPressure:
		next = cur * 3 / 2
	case p <= lowPressure:
		next = cur * 4 / 5
	}
	l.delay.Store(int64(l.clamp(next)))
}

// Delay returns the current inter-batch delay.
func (l *RateLimiter) Delay() time.Duration {
	return time.Duration(l.delay.Load())
}

func (l *RateLimiter) clamp(d time.Duration) time.Duration {
	if d < l.min {
		return l.min
	}
	if d > l.max {
		return l.max
	}
	return d
}
