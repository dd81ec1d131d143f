package engine

import "time"

// TimeProvider supplies wall-clock readings to the scheduler
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider provides the real system time with monotonic clock readings
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a new monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// frameDelta returns the elapsed time between ticks clamped to [0, limit]
func frameDelta(prev, now time.Time, limit time.Duration) time.Duration {
	dt := now.Sub(prev)
	if dt < 0 {
		return 0
	}
	if dt > limit {
		return limit
	}
	return dt
}
