package statusapi

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/log"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/metrics"
)

// Status is the external, read-only snapshot document of spec §6.
type Status struct {
	State            string  `json:"status"`
	UptimeSeconds    int64   `json:"uptime_seconds"`
	Workers          int     `json:"workers"`
	ScanIntervalSecs int     `json:"scan_interval"`
	DataPath         string  `json:"data_path"`
	QueueSize        int     `json:"queue_size"`
	TasksDiscovered  int64   `json:"tasks_discovered"`
	TasksCompleted   int64   `json:"tasks_completed"`
	TasksFailed      int64   `json:"tasks_failed"`
	TasksRetried     int64   `json:"tasks_retried"`
	SuccessRate      float64 `json:"success_rate"`
	LastActivity     string  `json:"last_activity"`
}

// Source supplies the live values a Publisher assembles into Status
// on every tick. The supervisor implements this by closing over its
// own state (queue size, worker count, configured paths) alongside the
// shared Stats collector.
type Source interface {
	QueueSize() int
	Workers() int
	ScanIntervalSeconds() int
	DataPath() string
	State() string
	StartedAt() time.Time
}

// Publisher periodically renders Status to a file (atomically, via
// temp+rename) and keeps the latest copy in memory for the HTTP
// /status handler.
type Publisher struct {
	source Source
	stats  *metrics.Stats
	path   string

	latest atomic.Pointer[Status]
}

// NewPublisher constructs a Publisher that writes to path every
// Start-invoked tick.
func NewPublisher(source Source, stats *metrics.Stats, path string) *Publisher {
	return &Publisher{source: source, stats: stats, path: path}
}

// Start runs the publish loop until stopCh is closed, ticking every
// interval (spec §6: "every 5 s").
func (p *Publisher) Start(stopCh <-chan struct{}, interval time.Duration) {
	p.publishOnce()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.publishOnce()
		case <-stopCh:
			return
		}
	}
}

func (p *Publisher) publishOnce() {
	snap := p.stats.Snapshot()
	status := &Status{
		State:            p.source.State(),
		UptimeSeconds:    int64(time.Since(p.source.StartedAt()).Seconds()),
		Workers:          p.source.Workers(),
		ScanIntervalSecs: p.source.ScanIntervalSeconds(),
		DataPath:         p.source.DataPath(),
		QueueSize:        p.source.QueueSize(),
		TasksDiscovered:  snap.Discovered,
		TasksCompleted:   snap.Completed,
		TasksFailed:      snap.Failed,
		TasksRetried:     snap.Retried,
		SuccessRate:      snap.SuccessRatePercent(),
		LastActivity:     snap.LastActivity.Format(time.RFC3339),
	}
	p.latest.Store(status)
	// best-effort: a write failure is logged and never halts the supervisor
	if err := p.writeAtomic(status); err != nil {
		log.WithComponent("statusapi").Debug().Err(err).Str("path", p.path).Msg("status file write failed")
	}
}

func (p *Publisher) writeAtomic(status *Status) error {
	if p.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}

// Current returns the most recently published status, or a zero
// Status if Start has not ticked yet.
func (p *Publisher) Current() Status {
	if s := p.latest.Load(); s != nil {
		return *s
	}
	return Status{}
}

// Mux builds the HTTP handler serving GET /status and GET /metrics.
func (p *Publisher) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", p.handleStatus)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func (p *Publisher) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(p.Current()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// EnsureDir creates the parent directory of path if missing, so the
// first atomic write doesn't fail on a fresh deployment.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
