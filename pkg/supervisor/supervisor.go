package supervisor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/catalog"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/config"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/health"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/log"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/metrics"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/queue"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/scanner"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/statusapi"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/types"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/worker"
	"github.com/rs/zerolog"
)

// State is the supervisor's own lifecycle state (spec §4.5: init →
// running → stopping → stopped).
type State string

const (
	StateInit     State = "init"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateStopped  State = "stopped"
)

// Supervisor owns every long-running activity: the scanner loop, the
// worker pool, and the status publisher. It is constructed once per
// process and run to completion by Run.
type Supervisor struct {
	cfg     config.Config
	loader  catalog.Loader
	cat     catalog.Catalog
	probes  catalog.HealthProbes
	logger  zerolog.Logger
	startAt time.Time

	mu    sync.RWMutex
	state State

	queue     *queue.Queue
	stats     *metrics.Stats
	publisher *statusapi.Publisher
}

// New validates cfg and constructs a Supervisor wired to the given
// external collaborators. It performs no I/O beyond what Validate
// does; startup probes happen in Run.
func New(cfg config.Config, loader catalog.Loader, cat catalog.Catalog, probes catalog.HealthProbes) (*Supervisor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Supervisor{
		cfg:    cfg,
		loader: loader,
		cat:    cat,
		probes: probes,
		logger: log.WithComponent("supervisor"),
		state:  StateInit,
	}
	return s, nil
}

// Run executes the full startup sequence, blocks serving the scanner/
// worker/publisher loops, and performs the shutdown sequence once
// stopCh is closed (spec §4.5 steps 1-6). statusPath may be empty to
// skip writing the status file to disk.
func (s *Supervisor) Run(ctx context.Context, stopCh <-chan struct{}, statusPath string, httpAddr string) error {
	if err := s.probeStartup(ctx); err != nil {
		return fmt.Errorf("startup probe failed: %w", err)
	}

	gate := health.NewGate(s.probes, health.Config{
		MaxDatabases:              s.cfg.MaxDatabases,
		HeapThresholdPercent:      s.cfg.HeapThresholdPct,
		PagecacheThresholdPercent: s.cfg.PagecacheThresPct,
		Timeout:                   s.cfg.ProbeTimeout,
	}, log.WithComponent("health"))

	s.queue = queue.New()
	s.stats = metrics.NewStats(time.Now())
	s.startAt = time.Now()

	workerStopCh := make(chan struct{})
	workerCfg := worker.Config{
		HealthCheckRetryDelay: s.cfg.HealthCheckRetry,
		MaxRetries:            s.cfg.MaxRetries,
		RetryBackoffBase:      s.cfg.RetryBackoffBase,
		RetentionKeep:         s.cfg.RetentionKeep,
	}

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		w := worker.New(i, s.queue, gate, s.loader, s.cat, s.stats, workerCfg, workerStopCh)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run()
		}()
	}

	scannerStopCh := make(chan struct{})
	var scannerWG sync.WaitGroup
	scannerWG.Add(1)
	go func() {
		defer scannerWG.Done()
		s.runScanner(scannerStopCh)
	}()

	if statusPath != "" {
		if err := statusapi.EnsureDir(statusPath); err != nil {
			s.logger.Warn().Err(err).Msg("could not create status file directory")
		}
	}
	s.publisher = statusapi.NewPublisher(s, s.stats, statusPath)
	publisherStopCh := make(chan struct{})
	var publisherWG sync.WaitGroup
	publisherWG.Add(1)
	go func() {
		defer publisherWG.Done()
		s.publisher.Start(publisherStopCh, 5*time.Second)
	}()

	var httpServer *http.Server
	if httpAddr != "" {
		httpServer = &http.Server{Addr: httpAddr, Handler: s.publisher.Mux()}
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.logger.Error().Err(err).Msg("status HTTP server stopped unexpectedly")
			}
		}()
	}

	s.setState(StateRunning)
	s.logger.Info().Int("workers", s.cfg.Workers).Str("data_path", s.cfg.DataPath).Msg("supervisor running")

	<-stopCh
	s.setState(StateStopping)
	s.logger.Info().Msg("shutdown signal received, draining in-flight tasks")

	close(scannerStopCh)
	scannerWG.Wait()
	s.queue.Close()

	// Queued-but-not-yet-taken tasks are discarded immediately on
	// shutdown; only the task each worker already holds gets to finish
	// (spec §4.5 step 3); a worker whose Take lands between Close and
	// Drain still runs that one task. shutdownTimeout bounds that
	// in-flight work, not the discard.
	discarded := s.queue.Drain()
	if len(discarded) > 0 {
		s.logger.Info().Int("discarded", len(discarded)).Msg("discarding queued-but-unstarted tasks on shutdown")
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("all workers drained cleanly")
	case <-time.After(s.cfg.ShutdownTimeout):
		close(workerStopCh)
		s.logger.Warn().Msg("shutdown timeout exceeded, interrupting retry backoff sleeps and abandoning in-flight retries")
		<-done
	}

	close(publisherStopCh)
	publisherWG.Wait()
	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}

	s.setState(StateStopped)
	s.logger.Info().Msg("shutdown complete")
	return nil
}

// probeStartup performs spec §4.5 steps 2-3: a database connectivity
// probe and a snapshot-root readability check.
func (s *Supervisor) probeStartup(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()
	if err := s.probes.Ping(ctx); err != nil {
		return fmt.Errorf("database server unreachable: %w", err)
	}

	info, err := os.Stat(s.cfg.DataPath)
	if err != nil {
		return fmt.Errorf("snapshot root %s not accessible: %w", s.cfg.DataPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("snapshot root %s is not a directory", s.cfg.DataPath)
	}
	return nil
}

func (s *Supervisor) runScanner(stopCh <-chan struct{}) {
	scn := scanner.New(s.cfg.DataPath, log.WithComponent("scanner"))
	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	sweep := func() {
		snapshots, err := scn.Scan()
		if err != nil {
			s.logger.Error().Err(err).Msg("snapshot scan failed")
			return
		}
		for _, snap := range snapshots {
			task := &types.Task{Tenant: snap.Tenant, Timestamp: snap.Timestamp, DataPath: snap.Path, State: types.TaskStateQueued}
			if s.queue.Offer(task) {
				s.stats.IncDiscovered(time.Now())
				metrics.QueueSize.Set(float64(s.queue.Size()))
			}
		}
	}

	sweep()
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-stopCh:
			return
		}
	}
}

func (s *Supervisor) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// --- statusapi.Source ---

func (s *Supervisor) QueueSize() int {
	if s.queue == nil {
		return 0
	}
	return s.queue.Size()
}

func (s *Supervisor) Workers() int { return s.cfg.Workers }

func (s *Supervisor) ScanIntervalSeconds() int { return int(s.cfg.ScanInterval.Seconds()) }

func (s *Supervisor) DataPath() string { return s.cfg.DataPath }

func (s *Supervisor) State() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.state)
}

func (s *Supervisor) StartedAt() time.Time { return s.startAt }
