package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	spoolerrors "github.com/tessro/spool/internal/errors"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.spoolrc, $XDG_CONFIG_HOME/spool/config.toml, ~/.config/spool/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, spoolerrors.ErrConfigNotFound)
		}
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DotEnvFile is read from the working directory before SPOOL_* overrides
// are applied. Variables already set in the environment win.
const DotEnvFile = ".env"

func loadDotEnv() error {
	err := godotenv.Load(DotEnvFile)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
}

// DefaultPath returns the path `spool config init` writes to.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spoolrc"
	}
	return filepath.Join(home, ".spoolrc")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".spoolrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "spool", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Player
	if v := os.Getenv("SPOOL_PLAYER_ARTIST"); v != "" {
		cfg.Player.Artist = v
	}
	if v := os.Getenv("SPOOL_PLAYER_END_OF_TRACK"); v != "" {
		cfg.Player.EndOfTrack = v
	}
	if v := os.Getenv("SPOOL_PLAYER_AUTOPLAY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Player.Autoplay = b
		}
	}

	// Audio
	if v := os.Getenv("SPOOL_AUDIO_SAMPLE_RATE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Audio.SampleRate = i
		}
	}
	if v := os.Getenv("SPOOL_AUDIO_BUFFER_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Audio.BufferMS = i
		}
	}
	if v := os.Getenv("SPOOL_AUDIO_UPDATE_INTERVAL_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Audio.UpdateIntervalMS = i
		}
	}

	// Library
	if v := os.Getenv("SPOOL_LIBRARY_EXTENSIONS"); v != "" {
		cfg.Library.Extensions = strings.Split(v, ",")
	}
	if v := os.Getenv("SPOOL_LIBRARY_WATCH_DIR"); v != "" {
		cfg.Library.WatchDir = v
	}
	if v := os.Getenv("SPOOL_LIBRARY_MAX_MEMORY_MB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Library.MaxMemoryMB = i
		}
	}

	// TUI
	if v := os.Getenv("SPOOL_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("SPOOL_TUI_HIDE_COVER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TUI.HideCover = b
		}
	}

	// Remote
	if v := os.Getenv("SPOOL_REMOTE_MPRIS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Remote.MPRIS = b
		}
	}

	// Log
	if v := os.Getenv("SPOOL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SPOOL_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("SPOOL_LOG_MAX_SIZE_MB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Log.MaxSizeMB = i
		}
	}
	if v := os.Getenv("SPOOL_LOG_MAX_BACKUPS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Log.MaxBackups = i
		}
	}
	if v := os.Getenv("SPOOL_LOG_MAX_AGE_DAYS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Log.MaxAgeDays = i
		}
	}
	if v := os.Getenv("SPOOL_LOG_COMPRESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Compress = b
		}
	}
}
