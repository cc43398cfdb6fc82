// Package discovery walks seasons, games and play-by-play events for each
// target player and turns qualifying events into clip records.
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/classifier"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/ledger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/logger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/mapping"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/metrics"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/pacer"
)

const component = "discovery"

// EventSource lists a player's games and a game's events.
type EventSource interface {
	FindGames(ctx context.Context, playerID int, season string) ([]model.GameRecord, error)
	PlayByPlay(ctx context.Context, gameID string) ([]model.PlayEvent, error)
}

// ClipResolver turns an event into a downloadable video URL.
type ClipResolver interface {
	Resolve(ctx context.Context, gameID string, eventID int) (string, bool)
}

// PlayerResolver maps exact player names to directory entries.
type PlayerResolver interface {
	Resolve(ctx context.Context, names []string) ([]model.PlayerTarget, []string, error)
}

// FlushMode decides when results reach the mapping table and ledger.
type FlushMode string

const (
	// FlushAtEnd writes once after every player is processed.
	FlushAtEnd FlushMode = "end"
	// FlushPerPlayer also writes after each player so an interrupted run keeps finished players.
	FlushPerPlayer FlushMode = "player"
)

// ParseFlushMode validates a config value.
func ParseFlushMode(s string) (FlushMode, error) {
	switch FlushMode(s) {
	case FlushAtEnd, "":
		return FlushAtEnd, nil
	case FlushPerPlayer:
		return FlushPerPlayer, nil
	}
	return "", fmt.Errorf("unknown flush mode %q", s)
}

// Options wires an Orchestrator.
type Options struct {
	Source     EventSource
	Resolver   ClipResolver
	Players    PlayerResolver
	Classifier classifier.Classifier
	EventTypes model.EventTypeSet
	// Seasons are processed in order, e.g. the output of season.Range.
	Seasons     []string
	Quota       QuotaConfig
	Ledger      *ledger.Store
	Mapping     *mapping.Store
	MappingMode mapping.Mode
	FlushMode   FlushMode
	// LinksDir receives one "<player>_potential_links.txt" per player with
	// this run's URLs. Empty disables the lists.
	LinksDir string
	// Cooldown pauses after every N resolved clips across the whole run. Nil disables it.
	Cooldown *pacer.Cooldown
	Logger   logger.Logger
	Metrics  *metrics.Manager
}

// Orchestrator runs discovery for a list of players.
type Orchestrator struct {
	opts Options
	log  logger.Logger
}

// PlayerResult summarises one player's share of a run.
type PlayerResult struct {
	Target       model.PlayerTarget
	Clips        int
	GamesScanned int
	GamesSkipped int
}

// Result is the outcome of Run.
type Result struct {
	RunID   string
	Players []PlayerResult
	// Missing lists requested names that were not in the directory.
	Missing []string
	// Records are the clips found by this run only.
	Records      []model.ClipRecord
	TouchedGames ledger.Set
	Skipped      int
	Resolved     int
	Unresolved   int
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = logger.NewLogger()
	}
	if opts.FlushMode == "" {
		opts.FlushMode = FlushAtEnd
	}
	if opts.MappingMode == "" {
		opts.MappingMode = mapping.Append
	}
	return &Orchestrator{opts: opts, log: opts.Logger}
}

// Run discovers clips for names, then writes the mapping table and the ledger.
//
// Games listed in the ledger before the run starts are never queried.
// A failure inside one player's iteration is logged and does not stop the
// others. Cancelling ctx stops the run without a final flush.
func (o *Orchestrator) Run(ctx context.Context, names []string) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString(), TouchedGames: ledger.NewSet()}

	prior, err := o.opts.Ledger.Load()
	if err != nil {
		return nil, err
	}
	baseline, err := o.opts.Mapping.Baseline(o.opts.MappingMode)
	if err != nil {
		return nil, err
	}

	targets, missing, err := o.opts.Players.Resolve(ctx, names)
	if err != nil {
		return nil, err
	}
	res.Missing = missing
	for _, name := range missing {
		o.opts.Metrics.RecordPlayer("not_found")
		perr := errors.New(errors.PlayerResolutionError, "Player not found in directory", name, errors.ErrPlayerNotFound)
		o.log.Warn("Player not found in directory, skipping", component, map[string]interface{}{
			"run_id": res.RunID,
			"player": name,
			"code":   perr.Code,
			"error":  perr.Error(),
		})
	}

	o.log.Info("Starting discovery", component, map[string]interface{}{
		"run_id":       res.RunID,
		"players":      len(targets),
		"seasons":      o.opts.Seasons,
		"quota_policy": string(o.opts.Quota.Policy),
		"ledger_games": len(prior),
	})

	for _, target := range targets {
		o.opts.Metrics.RecordPlayer("found")
		pr, err := o.discoverPlayer(ctx, res, target, prior)
		res.Players = append(res.Players, pr)
		if err != nil {
			o.log.Warn("Discovery interrupted", component, map[string]interface{}{
				"run_id": res.RunID,
				"player": target.Name,
				"error":  err.Error(),
			})
			return res, err
		}

		if o.opts.FlushMode == FlushPerPlayer {
			if err := o.flush(baseline, res.Records, prior, res.TouchedGames); err != nil {
				return res, err
			}
		}
	}

	if err := o.flush(baseline, res.Records, prior, res.TouchedGames); err != nil {
		return res, err
	}

	o.log.Info("Discovery finished", component, map[string]interface{}{
		"run_id":        res.RunID,
		"clips":         len(res.Records),
		"touched_games": len(res.TouchedGames),
		"skipped_games": res.Skipped,
		"unresolved":    res.Unresolved,
		"elapsed":       logger.Elapsed(start),
	})
	return res, nil
}

// discoverPlayer iterates season, game and event for one player. The only
// error it returns is a context error; service failures are logged and skipped.
func (o *Orchestrator) discoverPlayer(ctx context.Context, res *Result, target model.PlayerTarget, prior ledger.Set) (PlayerResult, error) {
	pr := PlayerResult{Target: target}
	quota := NewQuota(o.opts.Quota)
	fields := func(extra map[string]interface{}) map[string]interface{} {
		f := map[string]interface{}{"run_id": res.RunID, "player": target.Name, "player_id": target.ID}
		for k, v := range extra {
			f[k] = v
		}
		return f
	}

	o.log.Info("Processing player", component, fields(nil))

	for _, season := range o.opts.Seasons {
		if quota.Done() {
			break
		}
		o.log.Info("Processing season", component, fields(map[string]interface{}{"season": season}))

		games, err := o.opts.Source.FindGames(ctx, target.ID, season)
		if err != nil {
			if ctx.Err() != nil {
				return pr, ctx.Err()
			}
			o.log.Warn("Failed to list games, treating season as empty", component, fields(map[string]interface{}{
				"season": season,
				"error":  err.Error(),
			}))
			continue
		}

		for _, game := range games {
			if quota.Done() {
				break
			}
			if prior.Has(game.GameID) {
				pr.GamesSkipped++
				res.Skipped++
				o.opts.Metrics.RecordGame("skipped")
				o.log.Debug("Game already in ledger", component, fields(map[string]interface{}{"game_id": game.GameID}))
				continue
			}

			events, err := o.opts.Source.PlayByPlay(ctx, game.GameID)
			if err != nil {
				if ctx.Err() != nil {
					return pr, ctx.Err()
				}
				o.opts.Metrics.RecordGame("failed")
				o.log.Warn("Failed to fetch play-by-play, skipping game", component, fields(map[string]interface{}{
					"game_id": game.GameID,
					"error":   err.Error(),
				}))
				continue
			}
			pr.GamesScanned++
			res.TouchedGames.Add(game.GameID)
			o.opts.Metrics.RecordGame("scanned")
			o.log.Info("Processing game", component, fields(map[string]interface{}{
				"season":  season,
				"game_id": game.GameID,
				"events":  len(events),
			}))

			if err := o.scanEvents(ctx, res, &pr, quota, target, game, events); err != nil {
				return pr, err
			}
		}
	}

	o.log.Info("Player done", component, fields(map[string]interface{}{
		"clips":         pr.Clips,
		"games_scanned": pr.GamesScanned,
		"games_skipped": pr.GamesSkipped,
	}))
	return pr, nil
}

func (o *Orchestrator) scanEvents(ctx context.Context, res *Result, pr *PlayerResult, quota *Quota,
	target model.PlayerTarget, game model.GameRecord, events []model.PlayEvent) error {
	for _, ev := range FilterEvents(events, target.ID, o.opts.EventTypes) {
		if quota.Done() {
			return nil
		}
		category, ok := o.opts.Classifier.Classify(ev)
		if !ok {
			continue
		}
		o.opts.Metrics.RecordEvent(string(category))
		if !quota.Wants(category) {
			continue
		}

		url, ok := o.opts.Resolver.Resolve(ctx, game.GameID, ev.EventID)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !ok {
			res.Unresolved++
			o.opts.Metrics.RecordClip(string(category), "unresolved")
			continue
		}

		quota.Take(category)
		pr.Clips++
		res.Resolved++
		res.Records = append(res.Records, model.ClipRecord{
			PlayerName:   target.Name,
			Category:     category,
			TempFilename: model.TempFilename(target.ID, game.GameID, ev.EventID, category),
			SourceURL:    url,
		})
		o.opts.Metrics.RecordClip(string(category), "resolved")
		o.log.Debug("Clip resolved", component, map[string]interface{}{
			"run_id":   res.RunID,
			"player":   target.Name,
			"game_id":  game.GameID,
			"event_id": ev.EventID,
			"category": string(category),
		})

		if o.opts.Cooldown != nil {
			paused, err := o.opts.Cooldown.Done(ctx)
			if err != nil {
				return err
			}
			if paused {
				o.log.Info("Cooling down", component, map[string]interface{}{
					"run_id":   res.RunID,
					"resolved": o.opts.Cooldown.Count(),
				})
			}
		}
	}
	return nil
}

func (o *Orchestrator) flush(baseline, records []model.ClipRecord, prior, touched ledger.Set) error {
	if err := o.opts.Mapping.Write(mapping.Merge(baseline, records)); err != nil {
		return err
	}
	if o.opts.LinksDir != "" {
		if _, err := mapping.WriteLinks(o.opts.LinksDir, records); err != nil {
			return err
		}
	}
	if err := o.opts.Ledger.Save(prior, touched); err != nil {
		return err
	}
	o.log.Debug("Flushed discovery output", component, map[string]interface{}{
		"mapping": o.opts.Mapping.Path(),
		"ledger":  o.opts.Ledger.Path(),
		"links":   o.opts.LinksDir,
		"records": len(records),
		"games":   len(touched),
	})
	return nil
}
