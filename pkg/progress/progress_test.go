package progress

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuietReporter(opts ...Option) *BarReporter {
	return NewReporter(append([]Option{WithWriter(&bytes.Buffer{})}, opts...)...)
}

func TestNewReporter(t *testing.T) {
	r := newQuietReporter()
	ev := r.Snapshot()
	assert.Equal(t, "initialized", ev.Status)
	assert.NotEmpty(t, ev.Timestamp)
}

func TestReporterLifecycle(t *testing.T) {
	r := newQuietReporter()
	r.Start(4)
	assert.Equal(t, "started", r.Snapshot().Status)

	r.Update(1, "trim", "clip_1.mp4")
	ev := r.Snapshot()
	assert.Equal(t, int64(1), ev.Current)
	assert.Equal(t, 25.0, ev.Percentage)
	assert.Equal(t, "trim", ev.Step)
	assert.Equal(t, "clip_1.mp4", ev.Stage)
	assert.Equal(t, "processing", ev.Status)

	r.Increment("trim", "clip_2.mp4")
	assert.Equal(t, int64(2), r.Snapshot().Current)

	r.Update(10, "trim", "overflow")
	assert.Equal(t, int64(4), r.Snapshot().Current, "progress is capped at total")

	r.Complete()
	ev = r.Snapshot()
	assert.Equal(t, "completed", ev.Status)
	assert.Equal(t, 100.0, ev.Percentage)

	r.Increment("trim", "late")
	assert.Equal(t, "completed", r.Snapshot().Status, "updates after Complete are ignored")
}

func TestUpdateBeforeStartIsIgnored(t *testing.T) {
	r := newQuietReporter()
	r.Update(3, "download", "x")
	r.Complete()
	assert.Equal(t, "initialized", r.Snapshot().Status)
}

func TestProgressFileText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.txt")
	r := newQuietReporter(WithFile(path, "text"))
	r.Start(2)
	r.Increment("download", "a.mp4")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "50.00", string(data))
}

func TestProgressFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	r := newQuietReporter(WithFile(path, "json"))
	r.Start(2)
	r.Increment("download", "a.mp4")
	r.Complete()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, "completed", ev.Status)
	assert.Equal(t, int64(2), ev.Total)
}

func TestUnknownFileFormatFallsBackToText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress")
	r := newQuietReporter(WithFile(path, "xml"))
	r.Start(1)
	r.Complete()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "100.00", string(data))
}

func TestNopSatisfiesReporter(t *testing.T) {
	var r Reporter = Nop{}
	assert.NotPanics(t, func() {
		r.Start(1)
		r.Update(1, "", "")
		r.Increment("", "")
		r.Complete()
	})
}
