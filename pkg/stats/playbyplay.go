package stats

import (
	"context"
	"net/url"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
)

const endpointPlayByPlay = "playbyplayv2"

// PlayByPlay returns every event of gameID in the order the service lists them.
//
// The description is the home column, or the visitor column when the home one
// is null, so events of the away team are not left without text.
func (c *Client) PlayByPlay(ctx context.Context, gameID string) ([]model.PlayEvent, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("GameID", gameID)
	params.Set("StartPeriod", "0")
	params.Set("EndPeriod", "14")

	var resp resultSetsResponse
	if err := c.get(ctx, endpointPlayByPlay, params, &resp); err != nil {
		return nil, err
	}
	t, ok := resp.pick("PlayByPlay")
	if !ok {
		return nil, nil
	}
	if err := t.require("EVENTNUM", "EVENTMSGTYPE", "PLAYER1_ID"); err != nil {
		return nil, err
	}

	events := make([]model.PlayEvent, 0, len(t.rows))
	for _, row := range t.rows {
		eventID, ok := t.integer(row, "EVENTNUM")
		if !ok {
			continue
		}
		msgType, _ := t.integer(row, "EVENTMSGTYPE")
		playerID, _ := t.integer(row, "PLAYER1_ID")

		desc, hasDesc := t.str(row, "HOMEDESCRIPTION")
		if !hasDesc {
			desc, hasDesc = t.str(row, "VISITORDESCRIPTION")
		}

		events = append(events, model.PlayEvent{
			GameID:         gameID,
			EventID:        eventID,
			PlayerID:       playerID,
			Type:           model.EventType(msgType),
			Description:    desc,
			HasDescription: hasDesc,
		})
	}
	return events, nil
}
