package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/shiritorimatch-go/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
//
// Time only moves when Advance or Set is called. Timers registered via
// AfterFunc fire synchronously, in deadline order, during the Advance call
// that passes their deadline. Sleep consumes the requested duration
// immediately (advancing the clock) so schedules with waits run instantly
// in tests.
type MockClock struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*mockTimer
	nextID  int
	Sleeps  []time.Duration // durations passed to Sleep, in call order
}

type mockTimer struct {
	id       int
	deadline time.Time
	fn       func()
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers fn to fire when the clock is advanced past d from now
func (c *MockClock) AfterFunc(d time.Duration, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTimer{id: c.nextID, deadline: c.now.Add(d), fn: fn}
	c.nextID++
	c.timers = append(c.timers, t)
	return func() { c.removeTimer(t.id) }
}

// Sleep records the requested duration and advances the clock by it
func (c *MockClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.Sleeps = append(c.Sleeps, d)
	c.mu.Unlock()
	c.Advance(d)
	return nil
}

// Advance moves the clock forward by the given duration, firing any timers
// whose deadline passes
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	c.fireDue()
}

// Set sets the clock to the given time, firing any timers whose deadline
// passes
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
	c.fireDue()
}

// fireDue runs expired timers outside the clock lock so their callbacks can
// schedule new timers
func (c *MockClock) fireDue() {
	c.mu.Lock()
	var due, pending []*mockTimer
	for _, t := range c.timers {
		if !t.deadline.After(c.now) {
			due = append(due, t)
		} else {
			pending = append(pending, t)
		}
	}
	c.timers = pending
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	for _, t := range due {
		t.fn()
	}
}

func (c *MockClock) removeTimer(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.timers {
		if t.id == id {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}
