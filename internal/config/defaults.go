package config

import "time"

// End-of-track policies.
const (
	EndOfTrackNext   = "next"
	EndOfTrackRepeat = "repeat"
	EndOfTrackStop   = "stop"
)

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Player: PlayerConfig{
			Artist:     "Unknown Artist",
			EndOfTrack: EndOfTrackNext,
		},
		Audio: AudioConfig{
			SampleRate:       44100,
			BufferMS:         100,
			UpdateIntervalMS: 250,
		},
		Library: LibraryConfig{
			Extensions:  []string{".mp3", ".wav", ".flac", ".ogg"},
			MaxMemoryMB: 512,
		},
		TUI: TUIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Player
	if c.Player.Artist == "" {
		c.Player.Artist = d.Player.Artist
	}
	if c.Player.EndOfTrack == "" {
		c.Player.EndOfTrack = d.Player.EndOfTrack
	}

	// Audio
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = d.Audio.SampleRate
	}
	if c.Audio.BufferMS == 0 {
		c.Audio.BufferMS = d.Audio.BufferMS
	}
	if c.Audio.UpdateIntervalMS == 0 {
		c.Audio.UpdateIntervalMS = d.Audio.UpdateIntervalMS
	}

	// Library
	if len(c.Library.Extensions) == 0 {
		c.Library.Extensions = d.Library.Extensions
	}
	if c.Library.MaxMemoryMB == 0 {
		c.Library.MaxMemoryMB = d.Library.MaxMemoryMB
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = d.Log.MaxAgeDays
	}
}

// BufferDuration returns the speaker buffer length.
func (c *AudioConfig) BufferDuration() time.Duration {
	return time.Duration(c.BufferMS) * time.Millisecond
}

// UpdateInterval returns how often playback position is reported.
func (c *AudioConfig) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalMS) * time.Millisecond
}

// MaxMemoryBytes returns the upload memory limit in bytes.
func (c *LibraryConfig) MaxMemoryBytes() int64 {
	return int64(c.MaxMemoryMB) << 20
}
