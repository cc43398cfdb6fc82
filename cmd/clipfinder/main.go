package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/config"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/logger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/metrics"
)

var (
	// Global options
	configPath  string
	logLevel    string
	logFormat   string
	metricsFile string
	noProgress  bool

	// Discovery options
	players         []string
	startSeason     string
	endSeason       string
	seasonType      string
	quotaPolicy     string
	quotaTotal      int
	mappingMode     string
	flushMode       string
	twoPointDefault bool

	// Download options
	rawDir      string
	chosenLinks string
	fetcher     string

	// Trim options
	finalDir      string
	cutList       string
	reportPath    string
	responsible   string
	playerFolders bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clipfinder",
		Short: "Find, download and trim NBA highlight clips",
		Long: `clipfinder discovers play-by-play events for chosen players on stats.nba.com,
resolves them to video links, downloads the raw clips and trims them into
numbered final clips with a hand-off report.

Stages can be run one at a time (discover, download, trim) or chained (run).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file (defaults to $CLIPFINDER_CONFIG)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: json or console")
	pf.StringVar(&metricsFile, "metrics-file", "", "Write a Prometheus text snapshot here when the command ends")
	pf.BoolVar(&noProgress, "no-progress", false, "Do not draw progress bars")

	rootCmd.AddCommand(newDiscoverCmd(), newDownloadCmd(), newTrimCmd(), newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is what every command needs once flags are parsed.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Manager
	started time.Time
}

// setup loads the config, applies flag overrides, validates and starts logging.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)

	if err := logger.Init(logger.LogLevel(cfg.LogLevel), logger.Format(cfg.LogFormat)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     logger.NewLogger(),
		metrics: metrics.NewManager(metrics.WithNamespace(cfg.MetricsNamespace)),
		started: time.Now(),
	}, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			apply()
		}
	}

	set("log-level", func() { cfg.LogLevel = logLevel })
	set("log-format", func() { cfg.LogFormat = logFormat })
	set("metrics-file", func() { cfg.Files.Metrics = metricsFile })

	set("player", func() { cfg.Players = players })
	set("start-season", func() { cfg.Season.Start = startSeason })
	set("end-season", func() { cfg.Season.End = endSeason })
	set("season-type", func() { cfg.Season.Type = seasonType })
	set("quota-policy", func() { cfg.Quota.Policy = quotaPolicy })
	set("quota-total", func() { cfg.Quota.Total = quotaTotal })
	set("mapping-mode", func() { cfg.MappingMode = mappingMode })
	set("flush-mode", func() { cfg.FlushMode = flushMode })
	set("two-points", func() {
		if twoPointDefault {
			cfg.UnmatchedFieldGoals = "two_points"
		} else {
			cfg.UnmatchedFieldGoals = "discard"
		}
	})

	set("raw-dir", func() { cfg.Dirs.Raw = rawDir })
	set("chosen-links", func() { cfg.Files.ChosenLinks = chosenLinks })
	set("fetcher", func() { cfg.Media.Fetcher = fetcher })

	set("final-dir", func() { cfg.Dirs.Final = finalDir })
	set("cut-list", func() { cfg.Files.CutList = cutList })
	set("report", func() { cfg.Files.Report = reportPath })
	set("responsible", func() { cfg.ResponsiblePerson = responsible })
	set("player-folders", func() { cfg.Dirs.PlayerFolders = playerFolders })
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-signalChan:
			logger.Info("Received signal, shutting down", "main", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(signalChan)
	}()

	return ctx, cancel
}

// finish writes the metrics snapshot, if configured, and logs the outcome.
func (a *app) finish(command string, err error) error {
	if path := a.cfg.Files.Metrics; path != "" {
		if werr := a.metrics.WriteTextfile(path); werr != nil {
			a.log.Warn("Failed to write metrics file", "main", map[string]interface{}{
				"path":  path,
				"error": werr.Error(),
			})
		}
	}
	if err != nil {
		a.log.Error("Command failed", "main", map[string]interface{}{
			"command": command,
			"error":   err.Error(),
			"elapsed": logger.Elapsed(a.started),
		})
		return err
	}
	a.log.Info("Command complete", "main", map[string]interface{}{
		"command": command,
		"elapsed": logger.Elapsed(a.started),
	})
	return nil
}
