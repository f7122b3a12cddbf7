package common

import "time"

// Clock provides an abstraction over time to enable deterministic testing.
// The reminder sweep and the list footer both derive "today" from it.
type Clock interface {
	// Now returns the current time
	Now() time.Time
}

// RealClock implements Clock using the standard time package
type RealClock struct{}

// NewRealClock creates a new RealClock instance
func NewRealClock() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

// MockClock implements Clock for testing with controllable time
type MockClock struct {
	currentTime time.Time
}

// NewMockClock creates a new MockClock with the specified initial time
func NewMockClock(initialTime time.Time) *MockClock {
	return &MockClock{currentTime: initialTime}
}

func (c *MockClock) Now() time.Time {
	return c.currentTime
}

// Advance moves the mock clock forward by the specified duration
func (c *MockClock) Advance(duration time.Duration) {
	c.currentTime = c.currentTime.Add(duration)
}

// SetTime sets the mock clock to a specific time
func (c *MockClock) SetTime(t time.Time) {
	c.currentTime = t
}
