package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCounters(t *testing.T) {
	m := NewManager()

	m.RecordRequest("playbyplayv2", "ok")
	m.RecordRequest("playbyplayv2", "ok")
	m.RecordRequest("videoeventsasset", "error")
	m.RecordGame("skipped")
	m.RecordClip("freethrow", "resolved")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("playbyplayv2", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("videoeventsasset", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.games.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clips.WithLabelValues("freethrow", "resolved")))
}

func TestNilManagerIsSafe(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() {
		m.RecordRequest("x", "ok")
		m.RecordGame("scanned")
		m.RecordEvent("freethrow")
		m.RecordClip("freethrow", "resolved")
		m.RecordMedia("fetch", "ok")
		m.RecordPlayer("found")
		require.NoError(t, m.WriteTextfile("ignored.prom"))
	})
	assert.Nil(t, m.Registry())
}

func TestWriteTextfile(t *testing.T) {
	m := NewManager(WithNamespace("test"))
	m.RecordMedia("trim", "ok")

	path := filepath.Join(t.TempDir(), "clipfinder.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `test_media_operations_total{operation="trim",outcome="ok"} 1`)
	assert.Contains(t, string(data), "test_last_run_timestamp_seconds")
}
