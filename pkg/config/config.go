// Package config holds the single settings value built at startup and passed
// to every component.
package config

import (
	"time"
)

// Config is the full application configuration.
type Config struct {
	LogLevel  string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`

	// Players are exact directory names, e.g. "Stephen Curry".
	Players []string `koanf:"players" validate:"dive,required"`
	// EventTypes are play-by-play type names such as "field_goal_made".
	EventTypes          []string     `koanf:"event_types" validate:"min=1,dive,required"`
	Season              SeasonConfig `koanf:"season"`
	Quota               QuotaConfig  `koanf:"quota"`
	UnmatchedFieldGoals string       `koanf:"unmatched_field_goals" validate:"oneof=discard two_points"`
	MappingMode         string       `koanf:"mapping_mode" validate:"oneof=append overwrite"`
	FlushMode           string       `koanf:"flush_mode" validate:"oneof=end player"`
	ResponsiblePerson   string       `koanf:"responsible_person"`
	MetricsNamespace    string       `koanf:"metrics_namespace"`

	Files FilesConfig `koanf:"files"`
	Dirs  DirsConfig  `koanf:"dirs"`
	Stats StatsConfig `koanf:"stats"`
	Media MediaConfig `koanf:"media"`
}

// SeasonConfig is the inclusive season range, labels like "2018-19".
type SeasonConfig struct {
	Start string `koanf:"start" validate:"required"`
	End   string `koanf:"end" validate:"required"`
	// Type is the game finder season type, e.g. "Regular Season" or "Playoffs".
	Type string `koanf:"type" validate:"required"`
}

// QuotaConfig limits how many clips are collected per player.
type QuotaConfig struct {
	Policy string `koanf:"policy" validate:"oneof=global per_category"`
	Total  int    `koanf:"total" validate:"min=0"`
	// PerCategory is keyed by category label or slug.
	PerCategory map[string]int `koanf:"per_category" validate:"dive,min=0"`
}

// FilesConfig locates the persisted tables.
type FilesConfig struct {
	Ledger          string `koanf:"ledger" validate:"required"`
	Mapping         string `koanf:"mapping" validate:"required"`
	PlayerDirectory string `koanf:"player_directory"`
	ChosenLinks     string `koanf:"chosen_links"`
	LinksDir        string `koanf:"links_dir"`
	CutList         string `koanf:"cut_list" validate:"required"`
	Report          string `koanf:"report" validate:"required"`
	// Metrics, when set, receives a Prometheus text snapshot after each command.
	Metrics string `koanf:"metrics"`
	// Progress, when set, mirrors stage progress into a file.
	Progress string `koanf:"progress"`
}

// DirsConfig is the clip directory layout.
type DirsConfig struct {
	Raw           string `koanf:"raw" validate:"required"`
	Final         string `koanf:"final" validate:"required"`
	PlayerFolders bool   `koanf:"player_folders"`
}

// StatsConfig tunes the stats service client and its pacing.
type StatsConfig struct {
	BaseURL       string        `koanf:"base_url" validate:"required,url"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestDelay  time.Duration `koanf:"request_delay" validate:"min=0"`
	RequestJitter time.Duration `koanf:"request_jitter" validate:"min=0"`
	ResolveDelay  time.Duration `koanf:"resolve_delay" validate:"min=0"`
	ResolveJitter time.Duration `koanf:"resolve_jitter" validate:"min=0"`
	CooldownEvery int           `koanf:"cooldown_every" validate:"min=0"`
	Cooldown      time.Duration `koanf:"cooldown" validate:"min=0"`
	MaxRPS        float64       `koanf:"max_rps" validate:"min=0"`
}

// MediaConfig selects the external tools.
type MediaConfig struct {
	Fetcher       string `koanf:"fetcher" validate:"oneof=yt-dlp http"`
	YTDLPBinary   string `koanf:"ytdlp_binary" validate:"required"`
	FFmpegBinary  string `koanf:"ffmpeg_binary" validate:"required"`
	FFprobeBinary string `koanf:"ffprobe_binary"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "json",
		Players:             []string{"Stephen Curry"},
		EventTypes:          []string{"field_goal_made", "free_throw"},
		Season:              SeasonConfig{Start: "2018-19", End: "2022-23", Type: "Regular Season"},
		Quota:               QuotaConfig{Policy: "global", Total: 10},
		UnmatchedFieldGoals: "discard",
		MappingMode:         "append",
		FlushMode:           "end",
		MetricsNamespace:    "clipfinder",
		Files: FilesConfig{
			Ledger:          "processed_games.log",
			Mapping:         "url_mapping.csv",
			PlayerDirectory: "players.json",
			ChosenLinks:     "chosen_links.txt",
			LinksDir:        ".",
			CutList:         "Raw_Clips/cut_list.txt",
			Report:          "Final_Clips_Report.csv",
		},
		Dirs: DirsConfig{Raw: "Raw_Clips", Final: "Final_Clips"},
		Stats: StatsConfig{
			BaseURL:       "https://stats.nba.com/stats",
			Timeout:       30 * time.Second,
			RequestDelay:  600 * time.Millisecond,
			RequestJitter: 300 * time.Millisecond,
			ResolveDelay:  600 * time.Millisecond,
			ResolveJitter: 300 * time.Millisecond,
			CooldownEvery: 50,
			Cooldown:      10 * time.Second,
			MaxRPS:        2,
		},
		Media: MediaConfig{
			Fetcher:       "yt-dlp",
			YTDLPBinary:   "yt-dlp",
			FFmpegBinary:  "ffmpeg",
			FFprobeBinary: "ffprobe",
		},
	}
}
