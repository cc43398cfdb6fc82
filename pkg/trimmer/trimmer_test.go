package trimmer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/logger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/mapping"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/media"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
)

type trimCall struct {
	src      string
	start    time.Duration
	duration time.Duration
	dest     string
}

type fakeTrimmer struct {
	calls []trimCall
	fail  map[string]bool
}

func (f *fakeTrimmer) Trim(_ context.Context, src string, start, duration time.Duration, dest string) media.Result {
	f.calls = append(f.calls, trimCall{src, start, duration, dest})
	if f.fail[filepath.Base(src)] {
		return media.Result{Path: dest, Err: fmt.Errorf("ffmpeg exited with status 1")}
	}
	return media.Result{Path: dest}
}

type fakeProber struct {
	duration time.Duration
}

func (p fakeProber) Probe(context.Context, string) (media.Info, error) {
	return media.Info{Width: 1280, Height: 720, Duration: p.duration}, nil
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"00:00:01.500000", 1500 * time.Millisecond},
		{"00:01:02.25", time.Minute + 2250*time.Millisecond},
		{"01:00:00", time.Hour},
		{" 00:00:03.000001 ", 3*time.Second + time.Microsecond},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "1.5", "00:61:00", "00:00:xx", "00:00:01.", "00:00:01.1234567890"} {
		_, err := ParseTimestamp(bad)
		assert.Error(t, err, bad)
	}
}

func TestDecodeCutList(t *testing.T) {
	in := "G_1_2544_freethrow.mp4,00:00:01.000000,00:00:04.500000\n\nG_2_2544_3points_shooting.mp4, 00:00:00.5, 00:00:02\n"
	cuts, err := DecodeCutList(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, cuts, 2)
	assert.Equal(t, 3500*time.Millisecond, cuts[0].Duration())
	assert.Equal(t, 1, cuts[0].Line)
	assert.Equal(t, "G_2_2544_3points_shooting.mp4", cuts[1].TempFilename)
	assert.Equal(t, 500*time.Millisecond, cuts[1].Start)
}

func TestDecodeCutListErrors(t *testing.T) {
	_, err := DecodeCutList(strings.NewReader("a.mp4,00:00:01\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ValidationError))

	_, err = DecodeCutList(strings.NewReader("a.mp4,00:00:01,later\n"))
	require.Error(t, err)
	var se *errors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, errors.ErrBadCutTimes, se.Code)
}

func TestJoinNumbersPerPlayerAndCategory(t *testing.T) {
	records := []model.ClipRecord{
		{PlayerName: "LeBron James", Category: model.CategoryThree, TempFilename: "a.mp4"},
		{PlayerName: "LeBron James", Category: model.CategoryFreeThrow, TempFilename: "b.mp4"},
		{PlayerName: "LeBron James", Category: model.CategoryThree, TempFilename: "c.mp4"},
		{PlayerName: "Stephen Curry", Category: model.CategoryThree, TempFilename: "d.mp4"},
		{PlayerName: "Stephen Curry", Category: model.CategoryThree, TempFilename: "uncut.mp4"},
	}
	cuts := []Cut{
		{TempFilename: "c.mp4", Start: 0, End: time.Second},
		{TempFilename: "a.mp4", Start: 0, End: time.Second},
		{TempFilename: "b.mp4", Start: 0, End: time.Second},
		{TempFilename: "d.mp4", Start: 0, End: time.Second},
		{TempFilename: "stray.mp4", Start: 0, End: time.Second},
	}

	jobs, uncut, stray := Join(records, cuts)
	require.Len(t, jobs, 4)
	var names []string
	for _, j := range jobs {
		names = append(names, j.ClipName())
	}
	assert.Equal(t, []string{
		"LeBron_James_3points_shooting_1.mp4",
		"LeBron_James_freethrow_1.mp4",
		"LeBron_James_3points_shooting_2.mp4",
		"Stephen_Curry_3points_shooting_1.mp4",
	}, names)
	require.Len(t, uncut, 1)
	assert.Equal(t, "uncut.mp4", uncut[0].TempFilename)
	require.Len(t, stray, 1)
	assert.Equal(t, "stray.mp4", stray[0].TempFilename)
}

func TestJobOutputPath(t *testing.T) {
	j := Job{Record: model.ClipRecord{PlayerName: "LeBron James", Category: model.CategoryFreeThrow}, Number: 3}
	assert.Equal(t, filepath.Join("Final_Clips", "LeBron_James_freethrow_3.mp4"), j.OutputPath("Final_Clips", false))
	assert.Equal(t, filepath.Join("Final_Clips", "LeBron_James", "LeBron_James_freethrow_3.mp4"), j.OutputPath("Final_Clips", true))
}

type workspace struct {
	raw, final, cutList, report string
	mapping                     *mapping.Store
}

func newWorkspace(t *testing.T, records []model.ClipRecord, cutList string, rawFiles ...string) workspace {
	t.Helper()
	dir := t.TempDir()
	ws := workspace{
		raw:     filepath.Join(dir, "Raw_Clips"),
		final:   filepath.Join(dir, "Final_Clips"),
		cutList: filepath.Join(dir, "Raw_Clips", "cut_list.txt"),
		report:  filepath.Join(dir, "Final_Clips_Report.csv"),
		mapping: mapping.New(filepath.Join(dir, "url_mapping.csv")),
	}
	require.NoError(t, os.MkdirAll(ws.raw, 0755))
	require.NoError(t, os.WriteFile(ws.cutList, []byte(cutList), 0644))
	require.NoError(t, ws.mapping.Write(records))
	for _, f := range rawFiles {
		require.NoError(t, os.WriteFile(filepath.Join(ws.raw, f), []byte("raw"), 0644))
	}
	return ws
}

func (ws workspace) trimmer(tool media.Trimmer, perPlayer bool) *Trimmer {
	return New(Options{
		RawDir:            ws.raw,
		FinalDir:          ws.final,
		CutList:           ws.cutList,
		ReportPath:        ws.report,
		ResponsiblePerson: "Jordan Analyst",
		PlayerFolders:     perPlayer,
		Mapping:           ws.mapping,
		Trimmer:           tool,
		Logger:            logger.Nop{},
	})
}

var sampleRecords = []model.ClipRecord{
	{PlayerName: "LeBron James", Category: model.CategoryThree, TempFilename: "G_7_2544_3points_shooting.mp4", SourceURL: "https://v/7.mp4"},
	{PlayerName: "LeBron James", Category: model.CategoryFreeThrow, TempFilename: "G_9_2544_freethrow.mp4", SourceURL: "https://v/9.mp4"},
	{PlayerName: "LeBron James", Category: model.CategoryThree, TempFilename: "G_11_2544_3points_shooting.mp4", SourceURL: "https://v/11.mp4"},
}

func TestRunTrimsAndReports(t *testing.T) {
	cuts := "G_7_2544_3points_shooting.mp4,00:00:01.000000,00:00:04.000000\n" +
		"G_9_2544_freethrow.mp4,00:00:00.500000,00:00:03.000000\n" +
		"G_404_1_freethrow.mp4,00:00:00.000000,00:00:01.000000\n"
	ws := newWorkspace(t, sampleRecords, cuts, "G_7_2544_3points_shooting.mp4", "G_9_2544_freethrow.mp4")
	tool := &fakeTrimmer{}

	sum, err := ws.trimmer(tool, false).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Trimmed)
	assert.Equal(t, 1, sum.UnmatchedCuts)
	assert.Equal(t, 1, sum.UnmatchedRecords)

	require.Len(t, tool.calls, 2)
	assert.Equal(t, filepath.Join(ws.raw, "G_7_2544_3points_shooting.mp4"), tool.calls[0].src)
	assert.Equal(t, time.Second, tool.calls[0].start)
	assert.Equal(t, 3*time.Second, tool.calls[0].duration)
	assert.Equal(t, filepath.Join(ws.final, "LeBron_James_3points_shooting_1.mp4"), tool.calls[0].dest)

	report, err := os.ReadFile(ws.report)
	require.NoError(t, err)
	assert.Equal(t, "Player Name,Video URL,Clip Name,Responsible Person\n"+
		"LeBron James,https://v/7.mp4,LeBron_James_3points_shooting_1.mp4,Jordan Analyst\n"+
		"LeBron James,https://v/9.mp4,LeBron_James_freethrow_1.mp4,Jordan Analyst\n", string(report))
}

type joinRecorder struct {
	logger.Nop
	warnings []map[string]interface{}
	debugs   []map[string]interface{}
}

func (r *joinRecorder) Warn(_ string, _ string, data map[string]interface{}) {
	r.warnings = append(r.warnings, data)
}

func (r *joinRecorder) Debug(_ string, _ string, data map[string]interface{}) {
	r.debugs = append(r.debugs, data)
}

func TestRunReportsJoinMismatches(t *testing.T) {
	cuts := "G_7_2544_3points_shooting.mp4,00:00:01.000000,00:00:04.000000\n" +
		"G_404_1_freethrow.mp4,00:00:00.000000,00:00:01.000000\n"
	ws := newWorkspace(t, sampleRecords[:2], cuts, "G_7_2544_3points_shooting.mp4")
	tr := ws.trimmer(&fakeTrimmer{}, false)
	rec := &joinRecorder{}
	tr.log = rec

	sum, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Trimmed)

	require.Len(t, rec.warnings, 1)
	assert.Equal(t, "G_404_1_freethrow.mp4", rec.warnings[0]["temp_filename"])
	assert.Equal(t, errors.ErrNoMatchingRecord, rec.warnings[0]["code"])
	assert.Contains(t, rec.warnings[0]["error"], "[data_join_error]")

	var uncut []map[string]interface{}
	for _, d := range rec.debugs {
		if d["code"] == errors.ErrNoMatchingCut {
			uncut = append(uncut, d)
		}
	}
	require.Len(t, uncut, 1)
	assert.Equal(t, "G_9_2544_freethrow.mp4", uncut[0]["temp_filename"])
}

func TestRunExcludesBadRows(t *testing.T) {
	cuts := "G_7_2544_3points_shooting.mp4,00:00:04.000000,00:00:04.000000\n" +
		"G_9_2544_freethrow.mp4,00:00:00.500000,00:00:03.000000\n" +
		"G_11_2544_3points_shooting.mp4,00:00:00.000000,00:00:02.000000\n"
	// G_9 has no raw file; G_7 has a zero-length cut; G_11 fails in ffmpeg.
	ws := newWorkspace(t, sampleRecords, cuts, "G_7_2544_3points_shooting.mp4", "G_11_2544_3points_shooting.mp4")
	tool := &fakeTrimmer{fail: map[string]bool{"G_11_2544_3points_shooting.mp4": true}}

	sum, err := ws.trimmer(tool, false).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Trimmed)
	assert.Equal(t, 2, sum.Skipped)
	assert.Equal(t, 1, sum.Failed)
	assert.Len(t, tool.calls, 1)

	report, err := os.ReadFile(ws.report)
	require.NoError(t, err)
	assert.Equal(t, "Player Name,Video URL,Clip Name,Responsible Person\n", string(report))
}

func TestRunPlayerFolders(t *testing.T) {
	cuts := "G_9_2544_freethrow.mp4,00:00:00.500000,00:00:03.000000\n"
	ws := newWorkspace(t, sampleRecords, cuts, "G_9_2544_freethrow.mp4")
	tool := &fakeTrimmer{}

	sum, err := ws.trimmer(tool, true).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sum.Rows, 1)
	assert.Equal(t, "LeBron_James", sum.Rows[0].PlayerFolder)
	assert.Equal(t, filepath.Join(ws.final, "LeBron_James", "LeBron_James_freethrow_1.mp4"), tool.calls[0].dest)

	report, err := os.ReadFile(ws.report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(report), "Player Name,Video URL,Clip Name,Responsible Person,Player Folder\n"))
}

func TestRunWithProberStillTrims(t *testing.T) {
	cuts := "G_9_2544_freethrow.mp4,00:00:00.500000,00:00:30.000000\n"
	ws := newWorkspace(t, sampleRecords, cuts, "G_9_2544_freethrow.mp4")
	tr := ws.trimmer(&fakeTrimmer{}, false)
	tr.opts.Prober = fakeProber{duration: 8 * time.Second}

	sum, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Trimmed)
}

func TestRunMissingInputsAreFatal(t *testing.T) {
	ws := newWorkspace(t, sampleRecords, "")
	tool := &fakeTrimmer{}

	require.NoError(t, os.Remove(ws.cutList))
	_, err := ws.trimmer(tool, false).Run(context.Background())
	require.Error(t, err)
	var se *errors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, errors.ErrCutListMissing, se.Code)

	require.NoError(t, os.RemoveAll(ws.raw))
	_, err = ws.trimmer(tool, false).Run(context.Background())
	require.ErrorAs(t, err, &se)
	assert.Equal(t, errors.ErrRawDirMissing, se.Code)
	assert.True(t, errors.Is(err, errors.MissingResourceError))

	assert.Empty(t, tool.calls)
	assert.NoFileExists(t, ws.report)
}
