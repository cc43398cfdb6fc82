// Package trimmer cuts the downloaded raw clips into final, numbered clips
// and writes the hand-off report.
package trimmer

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/fsutil"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/logger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/mapping"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/media"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/metrics"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/progress"
)

const component = "trimmer"

// Prober reports the real length of a raw clip.
type Prober interface {
	Probe(ctx context.Context, path string) (media.Info, error)
}

// Options configures a Trimmer.
type Options struct {
	RawDir            string
	FinalDir          string
	CutList           string
	ReportPath        string
	ResponsiblePerson string
	// PlayerFolders groups final clips in one folder per player.
	PlayerFolders bool
	Mapping       *mapping.Store
	Trimmer       media.Trimmer
	// Prober is optional; when set, cuts past the end of a raw clip are logged.
	Prober   Prober
	Progress progress.Reporter
	Logger   logger.Logger
	Metrics  *metrics.Manager
}

// Summary counts what a Run did.
type Summary struct {
	Joined           int
	Trimmed          int
	Skipped          int
	Failed           int
	UnmatchedCuts    int
	UnmatchedRecords int
	Rows             []ReportRow
}

// Trimmer runs the trim stage.
type Trimmer struct {
	opts Options
	log  logger.Logger
}

// New creates a Trimmer.
func New(opts Options) *Trimmer {
	if opts.Logger == nil {
		opts.Logger = logger.NewLogger()
	}
	if opts.Progress == nil {
		opts.Progress = progress.Nop{}
	}
	return &Trimmer{opts: opts, log: opts.Logger}
}

// Check verifies the inputs that must exist before any work starts.
func (t *Trimmer) Check() error {
	if !fsutil.IsDir(t.opts.RawDir) {
		return errors.New(errors.MissingResourceError, "Raw clip directory not found", t.opts.RawDir, errors.ErrRawDirMissing)
	}
	if !fsutil.Exists(t.opts.CutList) {
		return errors.New(errors.MissingResourceError, "Cut list not found", t.opts.CutList, errors.ErrCutListMissing)
	}
	if !t.opts.Mapping.Exists() {
		return errors.New(errors.MissingResourceError, "Mapping table not found", t.opts.Mapping.Path(), errors.ErrMappingMissing)
	}
	return nil
}

// Run joins the mapping table with the cut list, trims every joined clip and
// writes the report. Rows that cannot be trimmed are logged and left out of
// the report; missing inputs abort before anything is written.
func (t *Trimmer) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	if err := t.Check(); err != nil {
		return nil, err
	}

	records, err := t.opts.Mapping.Read()
	if err != nil {
		return nil, err
	}
	cuts, err := ReadCutList(t.opts.CutList)
	if err != nil {
		return nil, err
	}

	jobs, unmatchedRecords, unmatchedCuts := Join(records, cuts)
	sum := &Summary{Joined: len(jobs), UnmatchedCuts: len(unmatchedCuts), UnmatchedRecords: len(unmatchedRecords)}
	for _, c := range unmatchedCuts {
		jerr := errors.New(errors.DataJoinError, "Cut has no mapping record", c.TempFilename, errors.ErrNoMatchingRecord)
		t.log.Warn("Cut has no mapping record, excluded", component, map[string]interface{}{
			"temp_filename": c.TempFilename,
			"line":          c.Line,
			"code":          jerr.Code,
			"error":         jerr.Error(),
		})
	}
	for _, r := range unmatchedRecords {
		jerr := errors.New(errors.DataJoinError, "Mapping record has no cut", r.TempFilename, errors.ErrNoMatchingCut)
		t.log.Debug("Mapping record has no cut, not trimmed", component, map[string]interface{}{
			"temp_filename": r.TempFilename,
			"player":        r.PlayerName,
			"code":          jerr.Code,
			"error":         jerr.Error(),
		})
	}
	t.log.Info("Processing logged clips", component, map[string]interface{}{
		"records":        len(records),
		"cuts":           len(cuts),
		"joined":         len(jobs),
		"uncut_records":  len(unmatchedRecords),
		"unmatched_cuts": len(unmatchedCuts),
	})

	if err := os.MkdirAll(t.opts.FinalDir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.SystemError, "Failed to create final clip directory", errors.ErrCreateDirectory)
	}

	t.opts.Progress.Start(int64(len(jobs)))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		row, ok := t.trim(ctx, job, sum)
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		if ok {
			sum.Trimmed++
			sum.Rows = append(sum.Rows, row)
		}
		t.opts.Progress.Increment("trim", job.ClipName())
	}
	t.opts.Progress.Complete()

	if err := WriteReport(t.opts.ReportPath, sum.Rows, t.opts.PlayerFolders); err != nil {
		return sum, err
	}

	t.log.Info("Trim stage complete", component, map[string]interface{}{
		"trimmed": sum.Trimmed,
		"skipped": sum.Skipped,
		"failed":  sum.Failed,
		"report":  t.opts.ReportPath,
		"elapsed": logger.Elapsed(start),
	})
	return sum, nil
}

func (t *Trimmer) trim(ctx context.Context, job Job, sum *Summary) (ReportRow, bool) {
	rec := job.Record
	fields := map[string]interface{}{
		"temp_filename": rec.TempFilename,
		"clip":          job.ClipName(),
		"line":          job.Cut.Line,
	}

	src := filepath.Join(t.opts.RawDir, rec.TempFilename)
	if !fsutil.Exists(src) {
		sum.Skipped++
		t.opts.Metrics.RecordClip(string(rec.Category), "raw_missing")
		t.log.Warn("Raw clip missing, excluded", component, fields)
		return ReportRow{}, false
	}

	duration := job.Cut.Duration()
	if duration <= 0 {
		sum.Skipped++
		t.opts.Metrics.RecordClip(string(rec.Category), "bad_cut")
		fields["start"] = job.Cut.Start.String()
		fields["end"] = job.Cut.End.String()
		t.log.Warn("Cut end is not after its start, excluded", component, fields)
		return ReportRow{}, false
	}

	if t.opts.Prober != nil {
		if info, err := t.opts.Prober.Probe(ctx, src); err == nil && info.Duration > 0 && job.Cut.End > info.Duration {
			fields["raw_duration"] = info.Duration.String()
			fields["end"] = job.Cut.End.String()
			t.log.Warn("Cut ends after the raw clip", component, fields)
		}
	}

	dest := job.OutputPath(t.opts.FinalDir, t.opts.PlayerFolders)
	t.log.Info("Trimming clip", component, map[string]interface{}{
		"temp_filename": rec.TempFilename,
		"start":         job.Cut.Start.String(),
		"duration":      duration.String(),
		"clip":          job.ClipName(),
	})

	res := t.opts.Trimmer.Trim(ctx, src, job.Cut.Start, duration, dest)
	if !res.OK() {
		sum.Failed++
		t.opts.Metrics.RecordClip(string(rec.Category), "trim_failed")
		fields["error"] = res.Err.Error()
		t.log.Warn("Trim failed, excluded", component, fields)
		return ReportRow{}, false
	}

	t.opts.Metrics.RecordClip(string(rec.Category), "trimmed")
	row := ReportRow{
		PlayerName:        rec.PlayerName,
		VideoURL:          rec.SourceURL,
		ClipName:          job.ClipName(),
		ResponsiblePerson: t.opts.ResponsiblePerson,
	}
	if t.opts.PlayerFolders {
		row.PlayerFolder = PlayerFolder(rec.PlayerName)
	}
	return row, true
}
