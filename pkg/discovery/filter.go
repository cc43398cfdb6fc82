package discovery

import "github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"

// FilterEvents keeps the events credited to playerID whose type is allowed,
// preserving the order of the play-by-play log.
func FilterEvents(events []model.PlayEvent, playerID int, allow model.EventTypeSet) []model.PlayEvent {
	var out []model.PlayEvent
	for _, ev := range events {
		if ev.PlayerID != playerID || !allow.Contains(ev.Type) {
			continue
		}
		out = append(out, ev)
	}
	return out
}
