// Package model holds the domain types shared by discovery, download and trim.
package model

import (
	"fmt"
	"strings"
)

// PlayerTarget is a player resolved from the directory by exact name.
type PlayerTarget struct {
	Name string `json:"full_name"`
	ID   int    `json:"id"`
}

// GameRecord is one game a player appeared in during a season.
type GameRecord struct {
	GameID string
	Season string
}

// PlayEvent is a raw play-by-play row. It is never mutated after decoding.
type PlayEvent struct {
	GameID   string
	EventID  int
	PlayerID int
	Type     EventType
	// Description is only meaningful when HasDescription is true.
	Description    string
	HasDescription bool
}

// ClipRecord is one discovered clip: the unit persisted in the mapping table.
type ClipRecord struct {
	PlayerName   string
	Category     Category
	TempFilename string
	SourceURL    string
}

// GameID extracts the game the record was cut from.
func (r ClipRecord) GameID() string {
	return GameIDFromTempFilename(r.TempFilename)
}

// TempFilename builds the raw clip name for an event. It only depends on its
// arguments so repeated runs produce the same name and the downloader's
// existence check keeps working.
func TempFilename(playerID int, gameID string, eventID int, category Category) string {
	return fmt.Sprintf("%s_%d_%d_%s.mp4", gameID, eventID, playerID, category.Slug())
}

// GameIDFromTempFilename returns the leading game id of a name built by TempFilename.
func GameIDFromTempFilename(name string) string {
	id, _, _ := strings.Cut(name, "_")
	return id
}
