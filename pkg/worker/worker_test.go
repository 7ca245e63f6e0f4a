package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/catalog"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/health"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/metrics"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/queue"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() zerolog.Logger { return zerolog.New(io.Discard) }

type fakeHealthProbes struct{ healthy bool }

func (f *fakeHealthProbes) Ping(ctx context.Context) error { return nil }
func (f *fakeHealthProbes) CountDatabases(ctx context.Context) (int, error) {
	if f.healthy {
		return 1, nil
	}
	return 1000, nil
}
func (f *fakeHealthProbes) HeapUsage(ctx context.Context) (catalog.Probe, error) {
	return catalog.Unavailable(), nil
}
func (f *fakeHealthProbes) PagecacheUsage(ctx context.Context) (catalog.Probe, error) {
	return catalog.Unavailable(), nil
}

func healthyGate() *health.Gate {
	return health.NewGate(&fakeHealthProbes{healthy: true}, health.Config{MaxDatabases: 100}, discardLogger())
}

func unhealthyGate() *health.Gate {
	return health.NewGate(&fakeHealthProbes{healthy: false}, health.Config{MaxDatabases: 100}, discardLogger())
}

type fakeCatalog struct {
	databases []string
	aliases   map[string]string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{aliases: make(map[string]string)}
}

func (f *fakeCatalog) ListDatabases(ctx context.Context) ([]string, error) { return f.databases, nil }
func (f *fakeCatalog) ListAliases(ctx context.Context) (map[string]string, error) {
	return f.aliases, nil
}
func (f *fakeCatalog) SetAlias(ctx context.Context, alias, target string) error {
	f.aliases[alias] = target
	return nil
}
func (f *fakeCatalog) DropAlias(ctx context.Context, alias string) error {
	delete(f.aliases, alias)
	return nil
}
func (f *fakeCatalog) DropDatabase(ctx context.Context, name string) error {
	out := f.databases[:0]
	for _, d := range f.databases {
		if d != name {
			out = append(out, d)
		}
	}
	f.databases = out
	return nil
}

type fakeLoader struct {
	failuresBeforeSuccess int
	attempts              int
	permanentErr          error
}

type nonRetryableErr struct{ msg string }

func (e nonRetryableErr) Error() string      { return e.msg }
func (e nonRetryableErr) NonRetryable() bool { return true }

func (f *fakeLoader) Load(ctx context.Context, tenant string, timestamp int64, dataPath string) error {
	f.attempts++
	if f.permanentErr != nil {
		return f.permanentErr
	}
	if f.attempts <= f.failuresBeforeSuccess {
		return errors.New("transient: connection reset")
	}
	return nil
}

func newTestWorker(q *queue.Queue, gate *health.Gate, loader catalog.Loader, cat catalog.Catalog, cfg Config) (*Worker, *metrics.Stats) {
	stats := metrics.NewStats(time.Now())
	w := New(0, q, gate, loader, cat, stats, cfg, make(chan struct{}))
	return w, stats
}

func TestProcess_SuccessCutsOverAlias(t *testing.T) {
	q := queue.New()
	cat := newFakeCatalog()
	loader := &fakeLoader{}
	w, stats := newTestWorker(q, healthyGate(), loader, cat, Config{MaxRetries: 3, RetryBackoffBase: 2, RetentionKeep: 2})

	task := &types.Task{Tenant: "acme", Timestamp: 100}
	cat.databases = append(cat.databases, task.DatabaseName())
	w.process(context.Background(), task)

	assert.Equal(t, types.TaskStateCompleted, task.State)
	assert.Equal(t, "acme-100", cat.aliases["acme"])
	assert.Equal(t, int64(1), stats.Snapshot().Completed)
}

func TestProcess_DeclinesToMoveAliasBackward(t *testing.T) {
	q := queue.New()
	cat := newFakeCatalog()
	cat.databases = []string{"acme-100", "acme-200"}
	cat.aliases["acme"] = "acme-200"
	loader := &fakeLoader{}
	w, _ := newTestWorker(q, healthyGate(), loader, cat, Config{MaxRetries: 3, RetryBackoffBase: 2, RetentionKeep: 2})

	// A worker finishes loading the OLDER snapshot after the newer one
	// is already present; the alias must not move backward.
	task := &types.Task{Tenant: "acme", Timestamp: 100}
	w.process(context.Background(), task)

	assert.Equal(t, "acme-200", cat.aliases["acme"])
}

func TestProcess_HealthVeto_AbandonsWhenRetriesExhausted(t *testing.T) {
	q := queue.New()
	cat := newFakeCatalog()
	loader := &fakeLoader{}
	w, stats := newTestWorker(q, unhealthyGate(), loader, cat, Config{MaxRetries: 0, RetryBackoffBase: 2, RetentionKeep: 2})

	task := &types.Task{Tenant: "acme", Timestamp: 100}
	w.process(context.Background(), task)

	assert.Equal(t, types.TaskStateAbandoned, task.State)
	assert.Equal(t, int64(0), stats.Snapshot().Completed)
	assert.Equal(t, int64(1), stats.Snapshot().Failed)
	assert.Equal(t, 0, loader.attempts, "no load should be attempted when the health gate vetoes")
}

func TestProcess_HealthVeto_RequeuesWhenRetriesRemain(t *testing.T) {
	q := queue.New()
	cat := newFakeCatalog()
	loader := &fakeLoader{}
	w, stats := newTestWorker(q, unhealthyGate(), loader, cat, Config{MaxRetries: 3, RetryBackoffBase: 2, HealthCheckRetryDelay: time.Millisecond, RetentionKeep: 2})

	task := &types.Task{Tenant: "acme", Timestamp: 100}
	w.process(context.Background(), task)

	assert.Equal(t, types.TaskStateRetrying, task.State)
	assert.Equal(t, 1, task.RetryCount)
	assert.Equal(t, int64(1), stats.Snapshot().Retried)
	assert.Equal(t, 1, q.Size(), "vetoed task must be requeued")
}

func TestProcess_PermanentLoadFailureAbandonsImmediately(t *testing.T) {
	q := queue.New()
	cat := newFakeCatalog()
	loader := &fakeLoader{permanentErr: nonRetryableErr{"malformed snapshot"}}
	w, stats := newTestWorker(q, healthyGate(), loader, cat, Config{MaxRetries: 5, RetryBackoffBase: 2, RetentionKeep: 2})

	task := &types.Task{Tenant: "acme", Timestamp: 100}
	w.process(context.Background(), task)

	assert.Equal(t, types.TaskStateAbandoned, task.State)
	assert.Equal(t, 1, loader.attempts)
	assert.Equal(t, int64(1), stats.Snapshot().Failed)
}

func TestProcess_TransientFailureRetriesThenSucceeds(t *testing.T) {
	q := queue.New()
	cat := newFakeCatalog()
	loader := &fakeLoader{failuresBeforeSuccess: 2}
	w, stats := newTestWorker(q, healthyGate(), loader, cat, Config{MaxRetries: 3, RetryBackoffBase: 1, RetentionKeep: 2})

	task := &types.Task{Tenant: "acme", Timestamp: 100}
	w.process(context.Background(), task)
	require.Equal(t, types.TaskStateRetrying, task.State)
	require.Equal(t, 1, task.RetryCount)

	taken, ok := q.Take()
	require.True(t, ok)
	w.process(context.Background(), taken)
	require.Equal(t, types.TaskStateRetrying, taken.State)
	require.Equal(t, 2, taken.RetryCount)

	taken2, ok := q.Take()
	require.True(t, ok)
	w.process(context.Background(), taken2)

	assert.Equal(t, types.TaskStateCompleted, taken2.State)
	assert.Equal(t, 3, loader.attempts)
	assert.Equal(t, int64(2), stats.Snapshot().Retried)
	assert.Equal(t, int64(1), stats.Snapshot().Completed)
}

func TestProcess_MaxRetriesZeroAbandonsOnFirstTransientFailure(t *testing.T) {
	q := queue.New()
	cat := newFakeCatalog()
	loader := &fakeLoader{failuresBeforeSuccess: 1}
	w, stats := newTestWorker(q, healthyGate(), loader, cat, Config{MaxRetries: 0, RetryBackoffBase: 2, RetentionKeep: 2})

	task := &types.Task{Tenant: "acme", Timestamp: 100}
	w.process(context.Background(), task)

	assert.Equal(t, types.TaskStateAbandoned, task.State)
	assert.Equal(t, int64(1), stats.Snapshot().Failed)
}

func TestBackoffDelay_StrictExponential(t *testing.T) {
	assert.Equal(t, 2*time.Second, backoffDelay(2, 0))
	assert.Equal(t, 4*time.Second, backoffDelay(2, 1))
	assert.Equal(t, 8*time.Second, backoffDelay(2, 2))
}

func TestBackoffDelay_CappedAt300Seconds(t *testing.T) {
	assert.Equal(t, backoffCap, backoffDelay(2, 20))
}

func TestInterruptibleSleep_InterruptedByShutdown(t *testing.T) {
	stopCh := make(chan struct{})
	w := &Worker{stopCh: stopCh}
	close(stopCh)

	interrupted := w.interruptibleSleep(time.Hour)
	assert.True(t, interrupted)
}
