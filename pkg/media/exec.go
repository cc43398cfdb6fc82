package media

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/logger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/metrics"
)

// stderr lines kept for error details
const tailLines = 5

// ExecOptions configures an ExecTool.
type ExecOptions struct {
	// YTDLPBinary fetches clips. Defaults to "yt-dlp".
	YTDLPBinary string
	// FFmpegBinary trims clips. Defaults to "ffmpeg".
	FFmpegBinary string
	Logger       logger.Logger
	Metrics      *metrics.Manager
}

// ExecTool shells out to yt-dlp and ffmpeg.
type ExecTool struct {
	opts ExecOptions
	log  logger.Logger
}

// NewExecTool creates an ExecTool with defaults for empty options.
func NewExecTool(opts ExecOptions) *ExecTool {
	if opts.YTDLPBinary == "" {
		opts.YTDLPBinary = "yt-dlp"
	}
	if opts.FFmpegBinary == "" {
		opts.FFmpegBinary = "ffmpeg"
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewLogger()
	}
	return &ExecTool{opts: opts, log: opts.Logger}
}

// CheckFetcher verifies that the yt-dlp binary runs.
func (t *ExecTool) CheckFetcher(ctx context.Context) error {
	return checkBinary(ctx, t.opts.YTDLPBinary, "--version")
}

// CheckTrimmer verifies that the ffmpeg binary runs.
func (t *ExecTool) CheckTrimmer(ctx context.Context) error {
	return checkBinary(ctx, t.opts.FFmpegBinary, "-version")
}

// Fetch runs "yt-dlp -q -o dest url".
func (t *ExecTool) Fetch(ctx context.Context, url, dest string) Result {
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return Result{Path: dest, Err: errors.Wrap(err, errors.SystemError, "Failed to create output directory", errors.ErrCreateDirectory)}
	}

	err := t.run(ctx, "yt-dlp", t.opts.YTDLPBinary, []string{"-q", "-o", dest, url})
	res := Result{Path: dest, Elapsed: time.Since(start)}
	if err != nil {
		res.Err = errors.Wrap(err, errors.MediaError, "Failed to fetch clip", errors.ErrFetchFailed)
		t.opts.Metrics.RecordMedia("fetch", "error")
		return res
	}
	t.opts.Metrics.RecordMedia("fetch", "ok")
	return res
}

// Trim runs "ffmpeg -i src -ss start -t duration -y dest".
func (t *ExecTool) Trim(ctx context.Context, src string, start, duration time.Duration, dest string) Result {
	began := time.Now()
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return Result{Path: dest, Err: errors.Wrap(err, errors.SystemError, "Failed to create output directory", errors.ErrCreateDirectory)}
	}

	args := []string{"-i", src, "-ss", seconds(start), "-t", seconds(duration), "-y", dest}
	err := t.run(ctx, "ffmpeg", t.opts.FFmpegBinary, args)
	res := Result{Path: dest, Elapsed: time.Since(began)}
	if err != nil {
		res.Err = errors.Wrap(err, errors.MediaError, "Failed to trim clip", errors.ErrTrimFailed)
		t.opts.Metrics.RecordMedia("trim", "error")
		return res
	}
	t.opts.Metrics.RecordMedia("trim", "ok")
	return res
}

// run executes binary, streaming its stderr to the debug log. On failure the
// last stderr lines are attached to the returned error.
func (t *ExecTool) run(ctx context.Context, name, binary string, args []string) error {
	t.log.Debug("Executing command", name, map[string]interface{}{
		"command": binary + " " + strings.Join(args, " "),
	})

	cmd := exec.CommandContext(ctx, binary, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	// stderr must be drained before Wait
	lines := t.scan(name, stderr)
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if len(lines) > 0 {
			return &commandError{err: err, stderr: strings.Join(lines, "\n")}
		}
		return err
	}
	return nil
}

func (t *ExecTool) scan(name string, r io.Reader) []string {
	var tail []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		t.log.Debug(line, name, nil)
		tail = append(tail, line)
		if len(tail) > tailLines {
			tail = tail[1:]
		}
	}
	return tail
}

type commandError struct {
	err    error
	stderr string
}

func (e *commandError) Error() string {
	return e.err.Error() + ": " + e.stderr
}

func (e *commandError) Unwrap() error {
	return e.err
}

func checkBinary(ctx context.Context, binary, versionFlag string) error {
	if err := exec.CommandContext(ctx, binary, versionFlag).Run(); err != nil {
		return errors.New(errors.MissingResourceError, "Required binary is not available", binary, errors.ErrBinaryUnavailable)
	}
	return nil
}
