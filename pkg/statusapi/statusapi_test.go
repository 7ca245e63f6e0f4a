package statusapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	queueSize int
	workers   int
	startedAt time.Time
	state     string
}

func (f *fakeSource) QueueSize() int           { return f.queueSize }
func (f *fakeSource) Workers() int              { return f.workers }
func (f *fakeSource) ScanIntervalSeconds() int { return 30 }
func (f *fakeSource) DataPath() string         { return "/data" }
func (f *fakeSource) State() string            { return f.state }
func (f *fakeSource) StartedAt() time.Time     { return f.startedAt }

func TestPublishOnce_WritesAtomicFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.json")

	stats := metrics.NewStats(time.Now())
	stats.IncCompleted(time.Now())
	source := &fakeSource{queueSize: 2, workers: 4, startedAt: time.Now().Add(-time.Minute), state: "running"}

	pub := NewPublisher(source, stats, path)
	pub.publishOnce()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var status Status
	require.NoError(t, json.Unmarshal(data, &status))
	assert.Equal(t, "running", status.State)
	assert.Equal(t, 2, status.QueueSize)
	assert.Equal(t, int64(1), status.TasksCompleted)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
}

func TestHandleStatus_ServesLatestSnapshot(t *testing.T) {
	stats := metrics.NewStats(time.Now())
	source := &fakeSource{workers: 4, startedAt: time.Now(), state: "running"}
	pub := NewPublisher(source, stats, "")
	pub.publishOnce()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	pub.Mux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "running", status.State)
}

func TestCurrent_ZeroBeforeFirstPublish(t *testing.T) {
	pub := NewPublisher(&fakeSource{}, metrics.NewStats(time.Now()), "")
	assert.Equal(t, Status{}, pub.Current())
}
