package config

// Config is the root configuration structure.
type Config struct {
	Player  PlayerConfig  `toml:"player"`
	Audio   AudioConfig   `toml:"audio"`
	Library LibraryConfig `toml:"library"`
	TUI     TUIConfig     `toml:"tui"`
	Remote  RemoteConfig  `toml:"remote"`
	Log     LogConfig     `toml:"log"`
}

// PlayerConfig holds playback behavior settings.
type PlayerConfig struct {
	Artist     string `toml:"artist"`
	EndOfTrack string `toml:"end_of_track"`
	Autoplay   bool   `toml:"autoplay"`
}

// AudioConfig holds audio output settings.
type AudioConfig struct {
	SampleRate       int `toml:"sample_rate"`
	BufferMS         int `toml:"buffer_ms"`
	UpdateIntervalMS int `toml:"update_interval_ms"`
}

// LibraryConfig holds upload settings.
type LibraryConfig struct {
	Extensions  []string `toml:"extensions"`
	WatchDir    string   `toml:"watch_dir"`
	MaxMemoryMB int      `toml:"max_memory_mb"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme     string `toml:"theme"`
	HideCover bool   `toml:"hide_cover"`
}

// RemoteConfig holds desktop remote-control settings.
type RemoteConfig struct {
	MPRIS bool `toml:"mpris"`
}

// LogConfig holds logging settings. The rotation fields apply only when
// File is set.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}
