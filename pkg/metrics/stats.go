package metrics

import (
	"sync"
	"time"
)

// Stats is the mutex-guarded counter set the status publisher snapshots
// under the lock and writes to the status file outside the lock (spec
// §5 "Shared resource policy"). Every Inc* method also updates the
// matching Prometheus counter, so the status file and /metrics always
// agree.
type Stats struct {
	mu sync.Mutex

	discovered int64
	completed  int64
	failed     int64
	retried    int64

	startedAt    time.Time
	lastActivity time.Time
}

// NewStats constructs a Stats with StartedAt set to now.
func NewStats(now time.Time) *Stats {
	return &Stats{startedAt: now, lastActivity: now}
}

func (s *Stats) IncDiscovered(now time.Time) {
	s.mu.Lock()
	s.discovered++
	s.lastActivity = now
	s.mu.Unlock()
	TasksDiscoveredTotal.Inc()
}

func (s *Stats) IncCompleted(now time.Time) {
	s.mu.Lock()
	s.completed++
	s.lastActivity = now
	s.mu.Unlock()
	TasksCompletedTotal.Inc()
}

func (s *Stats) IncFailed(now time.Time) {
	s.mu.Lock()
	s.failed++
	s.lastActivity = now
	s.mu.Unlock()
	TasksFailedTotal.Inc()
}

func (s *Stats) IncRetried(now time.Time) {
	s.mu.Lock()
	s.retried++
	s.lastActivity = now
	s.mu.Unlock()
	TasksRetriedTotal.Inc()
}

func (s *Stats) IncHealthVeto(now time.Time) {
	s.mu.Lock()
	s.lastActivity = now
	s.mu.Unlock()
	HealthGateVetoTotal.Inc()
}

// Snapshot is an immutable, point-in-time copy of Stats, safe to hand to
// the status publisher for serialization outside the lock.
type Snapshot struct {
	Discovered   int64
	Completed    int64
	Failed       int64
	Retried      int64
	StartedAt    time.Time
	LastActivity time.Time
}

// SuccessRatePercent returns completed/(completed+failed)*100, or 100
// when no task has terminated yet.
func (s Snapshot) SuccessRatePercent() float64 {
	terminal := s.Completed + s.Failed
	if terminal == 0 {
		return 100
	}
	return float64(s.Completed) / float64(terminal) * 100
}

// Snapshot takes a consistent copy of the counters under the lock.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Discovered:   s.discovered,
		Completed:    s.completed,
		Failed:       s.failed,
		Retried:      s.retried,
		StartedAt:    s.startedAt,
		LastActivity: s.lastActivity,
	}
}
