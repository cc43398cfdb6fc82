package stats

import (
	"context"
	"net/url"
	"strconv"
)

const endpointVideoAsset = "videoeventsasset"

type videoAssetResponse struct {
	ResultSets struct {
		Meta struct {
			VideoURLs []struct {
				LURL string `json:"lurl"`
			} `json:"videoUrls"`
		} `json:"Meta"`
	} `json:"resultSets"`
}

// Resolve returns the high quality video link of an event.
// Every failure is logged and reported as "no URL"; nothing is retried.
func (c *Client) Resolve(ctx context.Context, gameID string, eventID int) (string, bool) {
	fields := map[string]interface{}{
		"game_id":  gameID,
		"event_id": eventID,
	}
	if err := c.waitResolve(ctx); err != nil {
		return "", false
	}

	params := url.Values{}
	params.Set("GameEventID", strconv.Itoa(eventID))
	params.Set("GameID", gameID)

	var resp videoAssetResponse
	if err := c.get(ctx, endpointVideoAsset, params, &resp); err != nil {
		fields["error"] = err.Error()
		c.log.Warn("Failed to resolve clip URL", component, fields)
		return "", false
	}

	urls := resp.ResultSets.Meta.VideoURLs
	if len(urls) == 0 || urls[0].LURL == "" {
		c.log.Debug("No video available for event", component, fields)
		return "", false
	}
	return urls[0].LURL, true
}
