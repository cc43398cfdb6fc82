// Package downloader is the stage between discovery and trimming: it fetches
// the raw clips listed in the mapping table into the raw directory.
package downloader

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/fsutil"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/ledger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/logger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/media"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/metrics"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/progress"
)

const component = "downloader"

// Options represents configuration options for the Downloader.
type Options struct {
	// RawDir receives one file per clip, named after its temp filename.
	RawDir string
	// ChosenLinks is an optional file of source URLs, one per line. When it is
	// set and present only matching records are fetched.
	ChosenLinks string
	// Ledger, when set, gets every game id of the mapping table folded in.
	Ledger   *ledger.Store
	Fetcher  media.Fetcher
	Progress progress.Reporter
	Logger   logger.Logger
	Metrics  *metrics.Manager
}

// Summary counts what a Run did.
type Summary struct {
	Selected   int
	Downloaded int
	Skipped    int
	Failed     int
	// FailedFiles lists temp filenames whose fetch failed.
	FailedFiles []string
}

// Downloader fetches raw clips. Create instances using New().
type Downloader struct {
	opts Options
	log  logger.Logger
}

// New creates a Downloader.
func New(opts Options) *Downloader {
	if opts.Logger == nil {
		opts.Logger = logger.NewLogger()
	}
	if opts.Progress == nil {
		opts.Progress = progress.Nop{}
	}
	return &Downloader{opts: opts, log: opts.Logger}
}

// Run fetches every selected record whose raw file does not exist yet.
// A failed fetch is logged and counted; only a ledger or filesystem problem,
// or ctx cancellation, stops the stage.
func (d *Downloader) Run(ctx context.Context, records []model.ClipRecord) (*Summary, error) {
	start := time.Now()

	if d.opts.Ledger != nil {
		ids := ledger.NewSet()
		for _, r := range records {
			ids.Add(r.GameID())
		}
		if err := d.opts.Ledger.Save(ledger.NewSet(), ids); err != nil {
			return nil, err
		}
		d.log.Info("Folded mapping games into ledger", component, map[string]interface{}{
			"games":  len(ids),
			"ledger": d.opts.Ledger.Path(),
		})
	}

	selected, err := d.selectRecords(records)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(d.opts.RawDir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.SystemError, "Failed to create raw clip directory", errors.ErrCreateDirectory)
	}

	sum := &Summary{Selected: len(selected)}
	d.log.Info("Processing chosen clips", component, map[string]interface{}{
		"clips":   len(selected),
		"raw_dir": d.opts.RawDir,
	})

	d.opts.Progress.Start(int64(len(selected)))
	for _, r := range selected {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		dest := filepath.Join(d.opts.RawDir, r.TempFilename)

		if fsutil.Exists(dest) {
			sum.Skipped++
			d.opts.Metrics.RecordMedia("fetch", "skipped")
			d.log.Debug("Clip already exists, skipping download", component, map[string]interface{}{"path": dest})
			d.opts.Progress.Increment("download", r.TempFilename)
			continue
		}

		res := d.opts.Fetcher.Fetch(ctx, r.SourceURL, dest)
		if !res.OK() {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			sum.Failed++
			sum.FailedFiles = append(sum.FailedFiles, r.TempFilename)
			d.log.Warn("Failed to download clip", component, map[string]interface{}{
				"temp_filename": r.TempFilename,
				"url":           r.SourceURL,
				"error":         res.Err.Error(),
			})
		} else {
			sum.Downloaded++
			d.log.Info("Downloaded clip", component, map[string]interface{}{
				"temp_filename": r.TempFilename,
				"elapsed":       res.Elapsed.String(),
			})
		}
		d.opts.Progress.Increment("download", r.TempFilename)
	}
	d.opts.Progress.Complete()

	d.log.Info("Download stage complete", component, map[string]interface{}{
		"selected":   sum.Selected,
		"downloaded": sum.Downloaded,
		"skipped":    sum.Skipped,
		"failed":     sum.Failed,
		"elapsed":    logger.Elapsed(start),
	})
	return sum, nil
}

func (d *Downloader) selectRecords(records []model.ClipRecord) ([]model.ClipRecord, error) {
	if d.opts.ChosenLinks == "" || !fsutil.Exists(d.opts.ChosenLinks) {
		return records, nil
	}
	chosen, err := ReadChosenLinks(d.opts.ChosenLinks)
	if err != nil {
		return nil, err
	}

	var out []model.ClipRecord
	for _, r := range records {
		if _, ok := chosen[r.SourceURL]; ok {
			out = append(out, r)
		}
	}
	d.log.Info("Filtered by chosen links", component, map[string]interface{}{
		"file":    d.opts.ChosenLinks,
		"links":   len(chosen),
		"records": len(out),
	})
	return out, nil
}

// ReadChosenLinks reads one URL per line, ignoring blank lines.
func ReadChosenLinks(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.SystemError, "Failed to open chosen links", errors.ErrReadFile)
	}
	defer f.Close()

	links := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			links[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.SystemError, "Failed to read chosen links", errors.ErrReadFile)
	}
	return links, nil
}
