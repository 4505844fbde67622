// file: services/mock_scheduler_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Test: callbacks fire in deadline order, FIFO on ties
func TestManualScheduler_Order(t *testing.T) {
	s := NewManualScheduler(testEpoch)
	var order []string
	s.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	s.AfterFunc(time.Second, func() { order = append(order, "a1") })
	s.AfterFunc(time.Second, func() { order = append(order, "a2") })

	s.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"a1", "a2"}, order)
	assert.Equal(t, testEpoch.Add(1500*time.Millisecond), s.Now())

	s.Advance(time.Second)
	assert.Equal(t, []string{"a1", "a2", "b"}, order)
	assert.Equal(t, 0, s.Pending())
}

// Test: a stopped timer never fires
func TestManualScheduler_Stop(t *testing.T) {
	s := NewManualScheduler(testEpoch)
	fired := false
	timer := s.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	s.Advance(time.Hour)
	assert.False(t, fired)
}

// Test: callbacks can schedule further callbacks within the same advance
func TestManualScheduler_Chained(t *testing.T) {
	s := NewManualScheduler(testEpoch)
	var at []time.Duration
	var step func()
	step = func() {
		at = append(at, s.Now().Sub(testEpoch))
		if len(at) < 3 {
			s.AfterFunc(200*time.Millisecond, step)
		}
	}
	s.AfterFunc(200*time.Millisecond, step)

	s.Advance(time.Second)
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 400 * time.Millisecond, 600 * time.Millisecond}, at)
}
