package media

import (
	"context"
	"encoding/json"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
)

// Info is what ffprobe reports about a clip.
type Info struct {
	Width    int
	Height   int
	Duration time.Duration
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width,omitempty"`
		Height    int    `json:"height,omitempty"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Prober inspects local clips with ffprobe.
type Prober struct {
	Binary string
}

// NewProber returns a Prober using binary, or "ffprobe" when empty.
func NewProber(binary string) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{Binary: binary}
}

// Available reports whether the binary runs.
func (p *Prober) Available(ctx context.Context) bool {
	return exec.CommandContext(ctx, p.Binary, "-version").Run() == nil
}

// Probe reads the first video stream's size and the container duration.
func (p *Prober) Probe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, p.Binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return Info{}, errors.Wrap(err, errors.MediaError, "Failed to run ffprobe", errors.ErrProbeFailed)
	}
	return parseProbe(out)
}

func parseProbe(out []byte) (Info, error) {
	var parsed ffprobeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return Info{}, errors.Wrap(err, errors.MediaError, "Failed to parse ffprobe output", errors.ErrProbeFailed)
	}

	var info Info
	found := false
	for _, s := range parsed.Streams {
		if s.CodecType == "video" {
			info.Width, info.Height = s.Width, s.Height
			found = true
			break
		}
	}
	if !found {
		return Info{}, errors.New(errors.MediaError, "No video stream in clip", "", errors.ErrProbeFailed)
	}

	if parsed.Format.Duration != "" {
		if secs, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
			info.Duration = time.Duration(math.Round(secs*1000)) * time.Millisecond
		}
	}
	return info, nil
}
