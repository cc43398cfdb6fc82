package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/logger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/metrics"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/progress"
)

// HTTPOptions configures an HTTPFetcher.
type HTTPOptions struct {
	// Timeout bounds one download. Defaults to 5 minutes.
	Timeout time.Duration
	// Progress receives byte counts for each download.
	Progress progress.Reporter
	Client   *http.Client
	Logger   logger.Logger
	Metrics  *metrics.Manager
}

// HTTPFetcher downloads clip URLs directly, for hosts that serve plain mp4 files.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions
	log    logger.Logger
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Minute
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewLogger()
	}
	return &HTTPFetcher{client: opts.Client, opts: opts, log: opts.Logger}
}

// Fetch streams url into dest. The body is written to a temporary sibling
// first so a failed download never leaves a partial clip behind.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dest string) Result {
	start := time.Now()
	res := Result{Path: dest}
	if err := f.fetch(ctx, url, dest); err != nil {
		res.Err = err
		f.opts.Metrics.RecordMedia("fetch", "error")
	} else {
		f.opts.Metrics.RecordMedia("fetch", "ok")
	}
	res.Elapsed = time.Since(start)
	return res
}

func (f *HTTPFetcher) fetch(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrap(err, errors.SystemError, "Failed to create output directory", errors.ErrCreateDirectory)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, errors.MediaError, "Failed to create HTTP request", errors.ErrFetchFailed)
	}

	f.log.Debug("Starting download", "http-fetcher", map[string]interface{}{
		"url":  url,
		"path": dest,
	})

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, errors.MediaError, "Failed to download clip", errors.ErrFetchFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(errors.MediaError, "Clip download failed", fmt.Sprintf("Status: %s", resp.Status), errors.ErrFetchFailed)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return errors.Wrap(err, errors.SystemError, "Failed to create output file", errors.ErrWriteFile)
	}
	defer os.Remove(tmp.Name())

	var body io.Reader = resp.Body
	if f.opts.Progress != nil && resp.ContentLength > 0 {
		f.opts.Progress.Start(resp.ContentLength)
		body = &progressReader{reader: resp.Body, reporter: f.opts.Progress, stage: filepath.Base(dest)}
	}

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, errors.MediaError, "Failed to write clip", errors.ErrFetchFailed)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.SystemError, "Failed to write clip", errors.ErrWriteFile)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return errors.Wrap(err, errors.SystemError, "Failed to move clip into place", errors.ErrWriteFile)
	}

	if f.opts.Progress != nil && resp.ContentLength > 0 {
		f.opts.Progress.Complete()
	}
	return nil
}

// progressReader reports bytes read so far.
type progressReader struct {
	reader   io.Reader
	reporter progress.Reporter
	stage    string
	read     int64
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.read += int64(n)
		pr.reporter.Update(pr.read, "download", pr.stage)
	}
	return n, err
}
