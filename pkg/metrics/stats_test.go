package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_SuccessRate(t *testing.T) {
	now := time.Now()
	s := NewStats(now)
	s.IncDiscovered(now)
	s.IncDiscovered(now)
	s.IncDiscovered(now)
	s.IncCompleted(now)
	s.IncCompleted(now)
	s.IncFailed(now)

	snap := s.Snapshot()
	assert.Equal(t, int64(3), snap.Discovered)
	assert.InDelta(t, 66.66, snap.SuccessRatePercent(), 0.1)
}

func TestSnapshot_NoTerminalTasksIsFullSuccessRate(t *testing.T) {
	s := NewStats(time.Now())
	assert.Equal(t, float64(100), s.Snapshot().SuccessRatePercent())
}

func TestIncRetried_UpdatesLastActivity(t *testing.T) {
	start := time.Now()
	s := NewStats(start)
	later := start.Add(time.Minute)
	s.IncRetried(later)
	assert.Equal(t, later, s.Snapshot().LastActivity)
}
