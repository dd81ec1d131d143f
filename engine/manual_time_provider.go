package engine

import (
	"sync"
	"time"
)

// ManualTimeProvider is a scheduler clock moved only by the caller
// With a non-zero step, every Now reading first advances the clock by step,
// so a running scheduler sees a fixed frame delta regardless of wall time
type ManualTimeProvider struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewManualTimeProvider creates a clock frozen at start
func NewManualTimeProvider(start time.Time) *ManualTimeProvider {
	return &ManualTimeProvider{now: start}
}

// NewSteppingTimeProvider creates a clock that advances by step on every reading
func NewSteppingTimeProvider(start time.Time, step time.Duration) *ManualTimeProvider {
	return &ManualTimeProvider{now: start, step: step}
}

func (m *ManualTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(m.step)
	return m.now
}

// Advance moves the clock forward by d
func (m *ManualTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
