package stats

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"os"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/fsutil"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/logger"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
)

const endpointAllPlayers = "commonallplayers"

// directorySeason is required by commonallplayers but does not filter the
// result while IsOnlyCurrentSeason is 0: every player ever listed comes back.
const directorySeason = "2023-24"

// Players downloads the full historical player directory.
func (c *Client) Players(ctx context.Context) ([]model.PlayerTarget, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("LeagueID", LeagueNBA)
	params.Set("Season", directorySeason)
	params.Set("IsOnlyCurrentSeason", "0")

	var resp resultSetsResponse
	if err := c.get(ctx, endpointAllPlayers, params, &resp); err != nil {
		return nil, err
	}
	t, ok := resp.pick("CommonAllPlayers")
	if !ok {
		return nil, nil
	}
	if err := t.require("PERSON_ID", "DISPLAY_FIRST_LAST"); err != nil {
		return nil, err
	}

	players := make([]model.PlayerTarget, 0, len(t.rows))
	for _, row := range t.rows {
		id, okID := t.integer(row, "PERSON_ID")
		name, okName := t.str(row, "DISPLAY_FIRST_LAST")
		if !okID || !okName {
			continue
		}
		players = append(players, model.PlayerTarget{Name: name, ID: id})
	}
	return players, nil
}

// PlayerSource lists every known player.
type PlayerSource interface {
	Players(ctx context.Context) ([]model.PlayerTarget, error)
}

// Directory resolves player names, caching the source's list in a JSON file.
type Directory struct {
	source    PlayerSource
	cachePath string
	log       logger.Logger
}

// NewDirectory creates a Directory. An empty cachePath disables the cache.
func NewDirectory(source PlayerSource, cachePath string, log logger.Logger) *Directory {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Directory{source: source, cachePath: cachePath, log: log}
}

// All returns the cached directory, fetching (and caching) it when absent.
func (d *Directory) All(ctx context.Context) ([]model.PlayerTarget, error) {
	if d.cachePath != "" && fsutil.Exists(d.cachePath) {
		players, err := readDirectoryFile(d.cachePath)
		if err == nil {
			return players, nil
		}
		d.log.Warn("Ignoring unreadable player directory cache", component, map[string]interface{}{
			"path":  d.cachePath,
			"error": err.Error(),
		})
	}

	players, err := d.source.Players(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.PlayerResolutionError, "Failed to load player directory", errors.ErrDirectoryLoad)
	}

	if d.cachePath != "" {
		werr := fsutil.WriteFileAtomic(d.cachePath, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(players)
		})
		if werr != nil {
			serr := errors.Wrap(werr, errors.PlayerResolutionError, "Failed to cache player directory", errors.ErrDirectoryCacheSave)
			d.log.Warn("Failed to cache player directory", component, map[string]interface{}{
				"path":  d.cachePath,
				"code":  serr.Code,
				"error": serr.Error(),
			})
		}
	}
	return players, nil
}

// Resolve matches names exactly (case-sensitive) against the directory.
// Targets come back in the order of names; unmatched names are returned separately.
func (d *Directory) Resolve(ctx context.Context, names []string) ([]model.PlayerTarget, []string, error) {
	all, err := d.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	found, missing := Match(all, names)
	return found, missing, nil
}

// Match is the pure part of Resolve. The first directory entry wins for duplicate names.
func Match(all []model.PlayerTarget, names []string) ([]model.PlayerTarget, []string) {
	byName := make(map[string]model.PlayerTarget, len(all))
	for _, p := range all {
		if _, dup := byName[p.Name]; !dup {
			byName[p.Name] = p
		}
	}

	var found []model.PlayerTarget
	var missing []string
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if p, ok := byName[n]; ok {
			found = append(found, p)
		} else {
			missing = append(missing, n)
		}
	}
	return found, missing
}

func readDirectoryFile(path string) ([]model.PlayerTarget, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var players []model.PlayerTarget
	if err := json.NewDecoder(f).Decode(&players); err != nil {
		return nil, err
	}
	return players, nil
}
