// Package progress renders stage progress (clips downloaded, clips trimmed,
// bytes fetched) on the console and, optionally, into a status file.
package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/logger"
)

// Event is the latest progress snapshot, as written to the status file.
type Event struct {
	Status     string  `json:"status"`
	Percentage float64 `json:"percentage"`
	Current    int64   `json:"current"`
	Total      int64   `json:"total"`
	Step       string  `json:"step"`
	Stage      string  `json:"stage"`
	Timestamp  string  `json:"timestamp"`
}

// Reporter receives progress from a long running stage.
type Reporter interface {
	// Start sets the number of units (clips or bytes) the stage will process.
	Start(total int64)
	// Update sets the absolute progress.
	Update(current int64, step, stage string)
	// Increment advances the progress by one unit.
	Increment(step, stage string)
	// Complete marks the stage finished.
	Complete()
}

type options struct {
	description string
	showBytes   bool
	writer      io.Writer
	filePath    string
	fileFormat  string
}

// Option configures a BarReporter.
type Option func(*options)

// WithDescription sets the text shown left of the bar.
func WithDescription(desc string) Option {
	return func(o *options) { o.description = desc }
}

// WithShowBytes renders the counts as byte sizes.
func WithShowBytes(show bool) Option {
	return func(o *options) { o.showBytes = show }
}

// WithWriter sends the bar somewhere other than stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// WithFile mirrors every update into path, formatted as "text" (percentage) or "json".
func WithFile(path, format string) Option {
	return func(o *options) {
		o.filePath = path
		switch format {
		case "json", "text":
			o.fileFormat = format
		default:
			logger.Warn("Unknown progress file format, using text", "progress", map[string]interface{}{
				"format": format,
			})
			o.fileFormat = "text"
		}
	}
}

// BarReporter draws a github.com/schollz/progressbar/v3 bar. It is safe for concurrent use.
type BarReporter struct {
	mu    sync.Mutex
	opts  options
	bar   *progressbar.ProgressBar
	event Event
}

// NewReporter creates a BarReporter. Nothing is drawn until Start.
func NewReporter(opts ...Option) *BarReporter {
	o := options{description: "Processing", writer: os.Stderr, fileFormat: "text"}
	for _, opt := range opts {
		opt(&o)
	}
	return &BarReporter{
		opts:  o,
		event: Event{Status: "initialized", Timestamp: now()},
	}
}

func (r *BarReporter) Start(total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	barOpts := []progressbar.Option{
		progressbar.OptionSetDescription(r.opts.description),
		progressbar.OptionSetWriter(r.opts.writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	}
	if r.opts.showBytes {
		barOpts = append(barOpts, progressbar.OptionShowBytes(true))
	}
	r.bar = progressbar.NewOptions64(total, barOpts...)
	r.event = Event{Status: "started", Total: total, Timestamp: now()}
	r.writeFile()
}

func (r *BarReporter) Update(current int64, step, stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set(current, step, stage)
}

func (r *BarReporter) Increment(step, stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set(r.event.Current+1, step, stage)
}

// set requires r.mu.
func (r *BarReporter) set(current int64, step, stage string) {
	if r.bar == nil {
		return
	}
	if r.event.Total > 0 && current > r.event.Total {
		current = r.event.Total
	}
	r.event.Current = current
	r.event.Status = "processing"
	r.event.Step = step
	r.event.Stage = stage
	r.event.Timestamp = now()
	if r.event.Total > 0 {
		r.event.Percentage = float64(current) / float64(r.event.Total) * 100
	}
	_ = r.bar.Set64(current)
	r.writeFile()
}

func (r *BarReporter) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
	r.event.Current = r.event.Total
	r.event.Percentage = 100
	r.event.Status = "completed"
	r.event.Timestamp = now()
	r.writeFile()
}

// Snapshot returns the latest event.
func (r *BarReporter) Snapshot() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.event
}

// writeFile requires r.mu. Failures are logged, never returned.
func (r *BarReporter) writeFile() {
	if r.opts.filePath == "" {
		return
	}

	var content []byte
	if r.opts.fileFormat == "json" {
		data, err := json.MarshalIndent(r.event, "", "  ")
		if err != nil {
			logger.Warn("Failed to encode progress event", "progress", map[string]interface{}{"error": err.Error()})
			return
		}
		content = data
	} else {
		content = []byte(fmt.Sprintf("%.2f", r.event.Percentage))
	}

	if err := os.WriteFile(r.opts.filePath, content, 0644); err != nil {
		logger.Warn("Failed to write progress file", "progress", map[string]interface{}{
			"path":  r.opts.filePath,
			"error": err.Error(),
		})
	}
}

func now() string {
	return time.Now().Format(time.RFC3339)
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start(int64)                  {}
func (Nop) Update(int64, string, string) {}
func (Nop) Increment(string, string)     {}
func (Nop) Complete()                    {}
