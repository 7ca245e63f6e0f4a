package supervisor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/catalog"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbes struct{ unreachable bool }

func (f *fakeProbes) Ping(ctx context.Context) error {
	if f.unreachable {
		return assertErr
	}
	return nil
}
func (f *fakeProbes) CountDatabases(ctx context.Context) (int, error) { return 0, nil }
func (f *fakeProbes) HeapUsage(ctx context.Context) (catalog.Probe, error) {
	return catalog.Unavailable(), nil
}
func (f *fakeProbes) PagecacheUsage(ctx context.Context) (catalog.Probe, error) {
	return catalog.Unavailable(), nil
}

var assertErr = &stubError{"connection refused"}

type stubError struct{ msg string }

func (e *stubError) Error() string { return e.msg }

type fakeCatalog struct{}

func (fakeCatalog) ListDatabases(ctx context.Context) ([]string, error) { return nil, nil }
func (fakeCatalog) ListAliases(ctx context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}
func (fakeCatalog) SetAlias(ctx context.Context, alias, target string) error { return nil }
func (fakeCatalog) DropAlias(ctx context.Context, alias string) error        { return nil }
func (fakeCatalog) DropDatabase(ctx context.Context, name string) error      { return nil }

type blockingLoader struct {
	release chan struct{}
}

func (l *blockingLoader) Load(ctx context.Context, tenant string, timestamp int64, dataPath string) error {
	<-l.release
	return nil
}

func baseConfig(t *testing.T, dataPath string) config.Config {
	cfg := config.Default()
	cfg.DataPath = dataPath
	cfg.Workers = 1
	cfg.ScanInterval = 10 * time.Millisecond
	cfg.ShutdownTimeout = 200 * time.Millisecond
	return cfg
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(config.Config{}, &blockingLoader{}, fakeCatalog{}, &fakeProbes{})
	assert.Error(t, err)
}

func TestRun_FailsFastOnUnreachableServer(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig(t, dir)
	sup, err := New(cfg, &blockingLoader{}, fakeCatalog{}, &fakeProbes{unreachable: true})
	require.NoError(t, err)

	stopCh := make(chan struct{})
	close(stopCh)
	err = sup.Run(context.Background(), stopCh, "", "")
	assert.Error(t, err)
}

func TestRun_FailsFastOnMissingSnapshotRoot(t *testing.T) {
	cfg := baseConfig(t, filepath.Join(t.TempDir(), "does-not-exist"))
	sup, err := New(cfg, &blockingLoader{}, fakeCatalog{}, &fakeProbes{})
	require.NoError(t, err)

	stopCh := make(chan struct{})
	close(stopCh)
	err = sup.Run(context.Background(), stopCh, "", "")
	assert.Error(t, err)
}

func TestRun_ReachesRunningThenStopsCleanly(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig(t, dir)
	sup, err := New(cfg, &blockingLoader{release: make(chan struct{})}, fakeCatalog{}, &fakeProbes{})
	require.NoError(t, err)

	stopCh := make(chan struct{})
	runDone := make(chan error, 1)
	go func() { runDone <- sup.Run(context.Background(), stopCh, "", "") }()

	require.Eventually(t, func() bool { return sup.State() == string(StateRunning) }, time.Second, time.Millisecond)

	close(stopCh)
	select {
	case err := <-runDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after shutdown signal")
	}
	assert.Equal(t, string(StateStopped), sup.State())
}

func TestRun_WritesStatusFileAtomically(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig(t, dir)
	statusPath := filepath.Join(dir, "status", "status.json")
	sup, err := New(cfg, &blockingLoader{release: make(chan struct{})}, fakeCatalog{}, &fakeProbes{})
	require.NoError(t, err)

	stopCh := make(chan struct{})
	runDone := make(chan error, 1)
	go func() { runDone <- sup.Run(context.Background(), stopCh, statusPath, "") }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(statusPath)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	close(stopCh)
	<-runDone
}
