// Package media is the boundary to the external video tools: a fetcher that
// saves a remote clip locally and a trimmer that cuts a segment out of it.
package media

import (
	"context"
	"strconv"
	"time"
)

// Result describes one finished media operation.
type Result struct {
	// Path is the file that was written.
	Path    string
	Elapsed time.Duration
	Err     error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Fetcher saves url at dest.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) Result
}

// Trimmer writes the segment [start, start+duration) of src to dest.
type Trimmer interface {
	Trim(ctx context.Context, src string, start, duration time.Duration, dest string) Result
}

// seconds renders d the way ffmpeg accepts it for -ss and -t.
func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 6, 64)
}
