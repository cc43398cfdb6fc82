package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/ledger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/logger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/media"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
)

// mockReporter is a simple progress.Reporter for tests.
type mockReporter struct {
	started   bool
	completed bool
	total     int64
	current   int64
}

func (m *mockReporter) Start(total int64)                 { m.started = true; m.total = total }
func (m *mockReporter) Update(current int64, _, _ string) { m.current = current }
func (m *mockReporter) Increment(_, _ string)             { m.current++ }
func (m *mockReporter) Complete()                         { m.completed = true }

type fakeFetcher struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeFetcher) Fetch(_ context.Context, url, dest string) media.Result {
	f.calls = append(f.calls, url)
	if f.fail[url] {
		return media.Result{Path: dest, Err: fmt.Errorf("HTTP Error 403: Forbidden")}
	}
	if err := os.WriteFile(dest, []byte(url), 0644); err != nil {
		return media.Result{Path: dest, Err: err}
	}
	return media.Result{Path: dest}
}

func records() []model.ClipRecord {
	return []model.ClipRecord{
		{PlayerName: "LeBron James", Category: model.CategoryThree, TempFilename: "0021800001_7_2544_3points_shooting.mp4", SourceURL: "https://v/1.mp4"},
		{PlayerName: "LeBron James", Category: model.CategoryFreeThrow, TempFilename: "0021800001_9_2544_freethrow.mp4", SourceURL: "https://v/2.mp4"},
		{PlayerName: "Stephen Curry", Category: model.CategoryThree, TempFilename: "0021800017_4_201939_3points_shooting.mp4", SourceURL: "https://v/3.mp4"},
	}
}

func TestRunDownloadsAll(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{}
	rep := &mockReporter{}
	d := New(Options{RawDir: filepath.Join(dir, "Raw_Clips"), Fetcher: fetcher, Progress: rep, Logger: logger.Nop{}})

	sum, err := d.Run(context.Background(), records())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Selected)
	assert.Equal(t, 3, sum.Downloaded)
	assert.Len(t, fetcher.calls, 3)
	assert.FileExists(t, filepath.Join(dir, "Raw_Clips", "0021800001_9_2544_freethrow.mp4"))
	assert.True(t, rep.started)
	assert.True(t, rep.completed)
	assert.Equal(t, int64(3), rep.current)
}

func TestRunSkipsExisting(t *testing.T) {
	raw := t.TempDir()
	existing := filepath.Join(raw, "0021800001_7_2544_3points_shooting.mp4")
	require.NoError(t, os.WriteFile(existing, []byte("existing data"), 0644))

	fetcher := &fakeFetcher{}
	sum, err := New(Options{RawDir: raw, Fetcher: fetcher, Logger: logger.Nop{}}).Run(context.Background(), records())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 2, sum.Downloaded)
	assert.NotContains(t, fetcher.calls, "https://v/1.mp4")

	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "existing data", string(content))
}

func TestRunChosenLinks(t *testing.T) {
	dir := t.TempDir()
	chosen := filepath.Join(dir, "chosen_links.txt")
	require.NoError(t, os.WriteFile(chosen, []byte("\nhttps://v/3.mp4\n  https://v/1.mp4  \n"), 0644))

	fetcher := &fakeFetcher{}
	d := New(Options{RawDir: filepath.Join(dir, "raw"), ChosenLinks: chosen, Fetcher: fetcher, Logger: logger.Nop{}})
	sum, err := d.Run(context.Background(), records())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Selected)
	assert.Equal(t, []string{"https://v/1.mp4", "https://v/3.mp4"}, fetcher.calls)
}

func TestRunMissingChosenLinksSelectsAll(t *testing.T) {
	dir := t.TempDir()
	d := New(Options{RawDir: dir, ChosenLinks: filepath.Join(dir, "absent.txt"), Fetcher: &fakeFetcher{}, Logger: logger.Nop{}})
	sum, err := d.Run(context.Background(), records())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Selected)
}

func TestRunFailureIsNotFatal(t *testing.T) {
	fetcher := &fakeFetcher{fail: map[string]bool{"https://v/2.mp4": true}}
	sum, err := New(Options{RawDir: t.TempDir(), Fetcher: fetcher, Logger: logger.Nop{}}).Run(context.Background(), records())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 2, sum.Downloaded)
	assert.Equal(t, []string{"0021800001_9_2544_freethrow.mp4"}, sum.FailedFiles)
}

func TestRunFoldsGamesIntoLedger(t *testing.T) {
	dir := t.TempDir()
	store := ledger.New(filepath.Join(dir, "processed_games.txt"))
	require.NoError(t, os.WriteFile(store.Path(), []byte("0021700500\n"), 0644))

	_, err := New(Options{RawDir: dir, Ledger: store, Fetcher: &fakeFetcher{}, Logger: logger.Nop{}}).Run(context.Background(), records())
	require.NoError(t, err)

	ids, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"0021700500", "0021800001", "0021800017"}, ids.Sorted())
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{}
	_, err := New(Options{RawDir: t.TempDir(), Fetcher: fetcher, Logger: logger.Nop{}}).Run(ctx, records())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.calls)
}
