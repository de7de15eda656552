package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.Audio.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}
	if err := c.Library.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("library: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	switch c.EndOfTrack {
	case "", EndOfTrackNext, EndOfTrackRepeat, EndOfTrackStop:
		// valid
	default:
		return fmt.Errorf("invalid end_of_track: %s (must be next, repeat, or stop)", c.EndOfTrack)
	}
	return nil
}

// Validate checks AudioConfig for errors.
func (c *AudioConfig) Validate() error {
	if c.SampleRate < 0 || (c.SampleRate > 0 && c.SampleRate < 8000) || c.SampleRate > 384000 {
		return fmt.Errorf("sample_rate must be between 8000 and 384000, got %d", c.SampleRate)
	}
	if c.BufferMS < 0 {
		return errors.New("buffer_ms must be non-negative")
	}
	if c.UpdateIntervalMS < 0 {
		return errors.New("update_interval_ms must be non-negative")
	}
	return nil
}

// Validate checks LibraryConfig for errors.
func (c *LibraryConfig) Validate() error {
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid extension %q (must start with a dot)", ext)
		}
	}
	if c.MaxMemoryMB < 0 {
		return errors.New("max_memory_mb must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return errors.New("log rotation settings must be non-negative")
	}
	return nil
}
