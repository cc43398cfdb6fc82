// Package stats talks to the stats.nba.com JSON API: the game finder, the
// play-by-play log, the video asset lookup and the player directory.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/logger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/metrics"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/pacer"
)

const (
	// DefaultBaseURL is the public stats endpoint root.
	DefaultBaseURL = "https://stats.nba.com/stats"
	// DefaultSeasonType restricts the game finder to regular season games.
	DefaultSeasonType = "Regular Season"
	// LeagueNBA is the league id of the NBA.
	LeagueNBA = "00"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:72.0) Gecko/20100101 Firefox/72.0"
	component = "stats"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	SeasonType string
	// ResolveDelay and ResolveJitter pace video lookups: each waits
	// ResolveDelay + U(0, ResolveJitter).
	ResolveDelay  time.Duration
	ResolveJitter time.Duration
	Pacer         *pacer.Pacer
	HTTPClient    *http.Client
	Logger        logger.Logger
	Metrics       *metrics.Manager
}

// Client is a sequential stats API client. It is not safe for concurrent use.
type Client struct {
	baseURL       string
	seasonType    string
	resolveDelay  time.Duration
	resolveJitter time.Duration
	http          *http.Client
	pacer         *pacer.Pacer
	log           logger.Logger
	metrics       *metrics.Manager
}

// New creates a Client, filling defaults for empty options.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.SeasonType == "" {
		opts.SeasonType = DefaultSeasonType
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewLogger()
	}

	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		seasonType:    opts.SeasonType,
		resolveDelay:  opts.ResolveDelay,
		resolveJitter: opts.ResolveJitter,
		http:          opts.HTTPClient,
		pacer:         opts.Pacer,
		log:           opts.Logger,
		metrics:       opts.Metrics,
	}
}

func (c *Client) wait(ctx context.Context) error {
	if c.pacer == nil {
		return ctx.Err()
	}
	return c.pacer.Wait(ctx)
}

func (c *Client) waitResolve(ctx context.Context) error {
	if c.pacer == nil {
		return ctx.Err()
	}
	return c.pacer.WaitFor(ctx, c.resolveDelay, c.resolveJitter)
}

// get issues one GET and decodes the JSON body into out.
// Context errors are returned as-is so callers can tell cancellation from a bad response.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, errors.StatsAPIError, "Failed to create stats request", errors.ErrStatsRequestFailed)
	}
	setBrowserHeaders(req)

	c.log.Debug("Stats request", component, map[string]interface{}{
		"endpoint": endpoint,
		"url":      reqURL,
	})

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordRequest(endpoint, "error")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, errors.StatsAPIError, "Stats request failed", errors.ErrStatsRequestFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordRequest(endpoint, "bad_status")
		return errors.New(errors.StatsAPIError, "Stats request returned an error status",
			fmt.Sprintf("%s: %s", endpoint, resp.Status), errors.ErrStatsBadStatus)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		c.metrics.RecordRequest(endpoint, "bad_body")
		return errors.Wrap(err, errors.StatsAPIError, "Failed to decode stats response", errors.ErrStatsDecode)
	}
	c.metrics.RecordRequest(endpoint, "ok")
	return nil
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
	req.Header.Set("Referer", "https://stats.nba.com/")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Cache-Control", "no-cache")
}
