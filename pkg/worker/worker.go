package worker

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/catalog"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/health"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/log"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/metrics"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/queue"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/retention"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// backoffCap bounds the exponential retry delay, per spec §9's
// "Exponential backoff cap" recommendation: the source applies no
// maximum, which this repository intentionally changes (a REDESIGN).
const backoffCap = 300 * time.Second

// Config holds the retry-engine parameters carried from the top-level
// supervisor config (spec §6 "Configuration").
type Config struct {
	HealthCheckRetryDelay time.Duration
	MaxRetries            int
	RetryBackoffBase      float64
	RetentionKeep         int
}

// Worker drives tasks dequeued from a Queue through the health gate,
// the Loader, the alias cutover and retention GC.
type Worker struct {
	id      int
	queue   *queue.Queue
	gate    *health.Gate
	loader  catalog.Loader
	catalog catalog.Catalog
	gc      *retention.GC
	stats   *metrics.Stats
	config  Config
	logger  zerolog.Logger
	stopCh  <-chan struct{}
}

// New constructs a Worker. stopCh, when closed, interrupts any
// in-progress retry backoff sleep (spec §5 "Cancellation"); it never
// interrupts an in-flight Load call.
func New(id int, q *queue.Queue, gate *health.Gate, loader catalog.Loader, cat catalog.Catalog, stats *metrics.Stats, cfg Config, stopCh <-chan struct{}) *Worker {
	return &Worker{
		id:      id,
		queue:   q,
		gate:    gate,
		loader:  loader,
		catalog: cat,
		gc:      retention.New(cat, cfg.RetentionKeep, log.WithComponent("retention")),
		stats:   stats,
		config:  cfg,
		logger:  log.WithComponent("worker"),
		stopCh:  stopCh,
	}
}

// Run loops, taking one task at a time from the queue until it is
// closed and drained.
func (w *Worker) Run() {
	for {
		task, ok := w.queue.Take()
		if !ok {
			return
		}
		metrics.QueueSize.Set(float64(w.queue.Size()))
		w.process(context.Background(), task)
		metrics.QueueSize.Set(float64(w.queue.Size()))
	}
}

// process drives a single task through the flow of spec §4.4.
func (w *Worker) process(ctx context.Context, task *types.Task) {
	corr := uuid.New().String()
	logger := log.WithTaskID(log.WithSnapshot(w.logger, task.Tenant, task.Timestamp), corr).
		With().Int("retry_count", task.RetryCount).Logger()

	task.State = types.TaskStateRunning

	healthy, reason := w.gate.Check(ctx)
	if !healthy {
		w.handleHealthVeto(task, reason, logger)
		return
	}

	start := time.Now()
	err := w.loader.Load(ctx, task.Tenant, task.Timestamp, task.DataPath)
	if err != nil {
		w.handleLoadFailure(task, err, logger)
		return
	}
	metrics.LoadDuration.Observe(time.Since(start).Seconds())

	if err := w.cutover(ctx, task, logger); err != nil {
		// Alias/retention failures don't re-run the load: the data is
		// already in place. Convergence will be retried on the next
		// snapshot for this tenant (spec §7).
		logger.Error().Err(err).Msg("alias/retention step failed after successful load")
	}

	task.State = types.TaskStateCompleted
	w.stats.IncCompleted(time.Now())
	outcome := types.Completed()
	logger.Info().Str("outcome", outcome.Kind.String()).Msg("task completed")
}

func (w *Worker) handleHealthVeto(task *types.Task, reason string, logger zerolog.Logger) {
	w.stats.IncHealthVeto(time.Now())

	if task.RetryCount >= w.config.MaxRetries {
		w.abandon(task, reason, logger)
		return
	}

	task.RetryCount++
	task.LastError = reason
	task.State = types.TaskStateRetrying
	outcome := types.Retrying(int64(w.config.HealthCheckRetryDelay.Seconds()), reason)
	logger.Warn().Str("outcome", outcome.Kind.String()).Str("reason", reason).Msg("health gate vetoed load, re-enqueueing")

	if w.interruptibleSleep(w.config.HealthCheckRetryDelay) {
		return // shutdown interrupted the backoff; queue is closing, don't requeue
	}
	w.requeue(task)
}

func (w *Worker) handleLoadFailure(task *types.Task, err error, logger zerolog.Logger) {
	if catalog.IsNonRetryable(err) {
		w.abandon(task, err.Error(), logger)
		return
	}

	if task.RetryCount >= w.config.MaxRetries {
		w.abandon(task, err.Error(), logger)
		return
	}

	delay := backoffDelay(w.config.RetryBackoffBase, task.RetryCount)
	task.RetryCount++
	task.LastError = err.Error()
	task.State = types.TaskStateRetrying
	outcome := types.Retrying(int64(delay.Seconds()), err.Error())
	logger.Warn().Err(err).Str("outcome", outcome.Kind.String()).Dur("backoff", delay).Msg("transient load failure, retrying")

	if w.interruptibleSleep(delay) {
		return
	}
	w.requeue(task)
}

func (w *Worker) abandon(task *types.Task, reason string, logger zerolog.Logger) {
	task.State = types.TaskStateAbandoned
	task.LastError = reason
	w.stats.IncFailed(time.Now())
	outcome := types.Abandoned(reason)
	logger.Error().Str("outcome", outcome.Kind.String()).Str("reason", reason).Int("retry_count", task.RetryCount).Msg("task abandoned")
}

func (w *Worker) requeue(task *types.Task) {
	w.stats.IncRetried(time.Now())
	w.queue.Requeue(task)
}

// cutover computes whether task's timestamp is the current latest
// successfully-loaded timestamp for its tenant and, if so, swaps the
// alias onto it, then runs retention GC (spec §4.4 steps 3-4).
//
// The latest-wins decision is evaluated against catalog state, not the
// task's own timestamp in isolation: a worker that loaded an older
// snapshot sees a newer one already present and declines to switch the
// alias backward (spec §5 "Ordering guarantees").
func (w *Worker) cutover(ctx context.Context, task *types.Task, logger zerolog.Logger) error {
	names, err := w.catalog.ListDatabases(ctx)
	if err != nil {
		return err
	}
	metrics.DatabasesPerTenant.WithLabelValues(task.Tenant).Set(float64(countForTenant(names, task.Tenant)))

	maxTs, ok := maxTimestampForTenant(names, task.Tenant)
	if ok && task.Timestamp >= maxTs {
		target := task.DatabaseName()
		if err := w.catalog.SetAlias(ctx, task.Tenant, target); err != nil {
			return err
		}
		logger.Info().Str("alias_target", target).Msg("alias cutover")
	} else {
		logger.Info().Int64("current_max", maxTs).Msg("newer snapshot already present, declining to switch alias backward")
	}

	aliases, err := w.catalog.ListAliases(ctx)
	if err != nil {
		return err
	}
	// gc.Run re-lists databases itself rather than reusing names above:
	// a second round-trip, but it keeps retention.GC's API self-contained
	// (callable without a worker already holding a fresh listing).
	return w.gc.Run(ctx, task.Tenant, aliases[task.Tenant])
}

// interruptibleSleep blocks for d, or until stopCh is closed, whichever
// comes first. It reports whether the sleep was interrupted by
// shutdown.
func (w *Worker) interruptibleSleep(d time.Duration) (interrupted bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return false
	case <-w.stopCh:
		return true
	}
}

// backoffDelay computes the i-th retry sleep as retryBackoffBase^(retryCount+1)
// seconds, capped at backoffCap (spec §4.4 "Backoff is strict
// exponential", §9 "Exponential backoff cap" redesign).
func backoffDelay(base float64, retryCount int) time.Duration {
	secondsCap := backoffCap.Seconds()
	seconds := math.Pow(base, float64(retryCount+1))
	// math.Pow grows past backoffCap's worth of seconds well before
	// retryCount reaches int64-nanosecond overflow territory; clamping
	// here avoids converting an astronomically large float64 to a
	// Duration at all.
	if seconds >= secondsCap {
		return backoffCap
	}
	return time.Duration(seconds * float64(time.Second))
}

// maxTimestampForTenant returns the largest timestamp among databases
// named "{tenant}-{timestamp}" in names.
func maxTimestampForTenant(names []string, tenant string) (max int64, found bool) {
	prefix := tenant + "-"
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		ts, err := strconv.ParseInt(strings.TrimPrefix(name, prefix), 10, 64)
		if err != nil {
			continue
		}
		if !found || ts > max {
			max, found = ts, true
		}
	}
	return max, found
}

// countForTenant returns how many database names belong to tenant.
func countForTenant(names []string, tenant string) int {
	prefix := tenant + "-"
	count := 0
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			count++
		}
	}
	return count
}
