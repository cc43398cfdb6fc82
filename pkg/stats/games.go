package stats

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
)

const endpointGameFinder = "leaguegamefinder"

// FindGames lists the games playerID appeared in during season ("2018-19").
// A game listed twice by the service is returned once, in first-seen order.
func (c *Client) FindGames(ctx context.Context, playerID int, season string) ([]model.GameRecord, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("PlayerOrTeam", "P")
	params.Set("PlayerID", strconv.Itoa(playerID))
	params.Set("Season", season)
	params.Set("SeasonType", c.seasonType)
	params.Set("LeagueID", LeagueNBA)

	var resp resultSetsResponse
	if err := c.get(ctx, endpointGameFinder, params, &resp); err != nil {
		return nil, err
	}
	t, ok := resp.pick("LeagueGameFinderResults")
	if !ok {
		return nil, nil
	}
	if err := t.require("GAME_ID"); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(t.rows))
	games := make([]model.GameRecord, 0, len(t.rows))
	for _, row := range t.rows {
		id, ok := t.str(row, "GAME_ID")
		if !ok || id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		games = append(games, model.GameRecord{GameID: id, Season: season})
	}
	return games, nil
}
