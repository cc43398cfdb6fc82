package main

import (
	"context"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/classifier"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/discovery"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/downloader"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/ledger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/mapping"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/media"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/pacer"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/progress"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/stats"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/trimmer"
)

func (a *app) reporter(description string, bytes bool) progress.Reporter {
	if noProgress {
		return progress.Nop{}
	}
	opts := []progress.Option{progress.WithDescription(description), progress.WithShowBytes(bytes)}
	if a.cfg.Files.Progress != "" {
		opts = append(opts, progress.WithFile(a.cfg.Files.Progress, "json"))
	}
	return progress.NewReporter(opts...)
}

func (a *app) buildOrchestrator() (*discovery.Orchestrator, error) {
	cfg := a.cfg
	seasons, err := cfg.Seasons()
	if err != nil {
		return nil, err
	}
	types, err := cfg.EventTypeSet()
	if err != nil {
		return nil, err
	}
	quota, err := cfg.QuotaConfig()
	if err != nil {
		return nil, err
	}

	p := pacer.New(pacer.Options{
		Base:   cfg.Stats.RequestDelay,
		Jitter: cfg.Stats.RequestJitter,
		MaxRPS: cfg.Stats.MaxRPS,
	})
	client := stats.New(stats.Options{
		BaseURL:       cfg.Stats.BaseURL,
		Timeout:       cfg.Stats.Timeout,
		SeasonType:    cfg.Season.Type,
		ResolveDelay:  cfg.Stats.ResolveDelay,
		ResolveJitter: cfg.Stats.ResolveJitter,
		Pacer:         p,
		Logger:        a.log,
		Metrics:       a.metrics,
	})

	return discovery.New(discovery.Options{
		Source:      client,
		Resolver:    client,
		Players:     stats.NewDirectory(client, cfg.Files.PlayerDirectory, a.log),
		Classifier:  classifier.New(cfg.UnmatchedPolicy()),
		EventTypes:  types,
		Seasons:     seasons,
		Quota:       quota,
		Ledger:      ledger.New(cfg.Files.Ledger),
		Mapping:     mapping.New(cfg.Files.Mapping),
		MappingMode: cfg.MappingModeValue(),
		FlushMode:   cfg.FlushModeValue(),
		LinksDir:    cfg.Files.LinksDir,
		Cooldown:    pacer.NewCooldown(cfg.Stats.CooldownEvery, cfg.Stats.Cooldown, nil),
		Logger:      a.log,
		Metrics:     a.metrics,
	}), nil
}

func (a *app) execTool() *media.ExecTool {
	return media.NewExecTool(media.ExecOptions{
		YTDLPBinary:  a.cfg.Media.YTDLPBinary,
		FFmpegBinary: a.cfg.Media.FFmpegBinary,
		Logger:       a.log,
		Metrics:      a.metrics,
	})
}

// buildFetcher returns the configured clip fetcher after checking it can run.
func (a *app) buildFetcher(ctx context.Context) (media.Fetcher, error) {
	if a.cfg.Media.Fetcher == "http" {
		return media.NewHTTPFetcher(media.HTTPOptions{
			Progress: a.reporter("Fetching clip", true),
			Logger:   a.log,
			Metrics:  a.metrics,
		}), nil
	}
	tool := a.execTool()
	if err := tool.CheckFetcher(ctx); err != nil {
		return nil, err
	}
	return tool, nil
}

func (a *app) buildDownloader(ctx context.Context) (*downloader.Downloader, error) {
	f, err := a.buildFetcher(ctx)
	if err != nil {
		return nil, err
	}
	return downloader.New(downloader.Options{
		RawDir:      a.cfg.Dirs.Raw,
		ChosenLinks: a.cfg.Files.ChosenLinks,
		Ledger:      ledger.New(a.cfg.Files.Ledger),
		Fetcher:     f,
		Progress:    a.reporter("Downloading clips", false),
		Logger:      a.log,
		Metrics:     a.metrics,
	}), nil
}

func (a *app) buildTrimmer(ctx context.Context) (*trimmer.Trimmer, error) {
	tool := a.execTool()
	if err := tool.CheckTrimmer(ctx); err != nil {
		return nil, err
	}

	opts := trimmer.Options{
		RawDir:            a.cfg.Dirs.Raw,
		FinalDir:          a.cfg.Dirs.Final,
		CutList:           a.cfg.Files.CutList,
		ReportPath:        a.cfg.Files.Report,
		ResponsiblePerson: a.cfg.ResponsiblePerson,
		PlayerFolders:     a.cfg.Dirs.PlayerFolders,
		Mapping:           mapping.New(a.cfg.Files.Mapping),
		Trimmer:           tool,
		Progress:          a.reporter("Trimming clips", false),
		Logger:            a.log,
		Metrics:           a.metrics,
	}
	if a.cfg.Media.FFprobeBinary != "" {
		if prober := media.NewProber(a.cfg.Media.FFprobeBinary); prober.Available(ctx) {
			opts.Prober = prober
		}
	}
	return trimmer.New(opts), nil
}
