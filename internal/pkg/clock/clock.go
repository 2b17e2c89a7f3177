package clock

import (
	"sync"
	"time"
)

// Clock is the single source of "now" for hold expiry and lead-time checks.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

// Now is in UTC so stored instants never carry the host's zone.
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// MockClock is a settable clock for tests; safe for concurrent use.
type MockClock struct {
	mu          sync.RWMutex
	currentTime time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t.UTC()}
}

func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentTime
}

func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = t.UTC()
}

func (c *MockClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = c.currentTime.Add(d)
}
