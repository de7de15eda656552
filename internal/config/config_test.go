package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	spoolerrors "github.com/tessro/spool/internal/errors"
)

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[player]
artist = "Mixtape"
end_of_track = "repeat"

[audio]
sample_rate = 48000

[library]
extensions = [".mp3", ".opus"]
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Player.Artist != "Mixtape" {
		t.Errorf("Player.Artist = %q, want %q", cfg.Player.Artist, "Mixtape")
	}
	if cfg.Player.EndOfTrack != EndOfTrackRepeat {
		t.Errorf("Player.EndOfTrack = %q, want %q", cfg.Player.EndOfTrack, EndOfTrackRepeat)
	}
	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("Audio.SampleRate = %d, want 48000", cfg.Audio.SampleRate)
	}
	if len(cfg.Library.Extensions) != 2 || cfg.Library.Extensions[1] != ".opus" {
		t.Errorf("Library.Extensions = %v", cfg.Library.Extensions)
	}

	// Unset fields take defaults
	if cfg.Audio.BufferMS != 100 {
		t.Errorf("Audio.BufferMS = %d, want default 100", cfg.Audio.BufferMS)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default info", cfg.Log.Level)
	}
}

func TestLoadFromMissing(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, spoolerrors.ErrConfigNotFound) {
		t.Errorf("LoadFrom() error = %v, want ErrConfigNotFound", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPOOL_PLAYER_ARTIST", "Env Artist")
	t.Setenv("SPOOL_AUDIO_SAMPLE_RATE", "96000")
	t.Setenv("SPOOL_REMOTE_MPRIS", "true")
	t.Setenv("SPOOL_LIBRARY_EXTENSIONS", ".wav,.flac")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if cfg.Player.Artist != "Env Artist" {
		t.Errorf("Player.Artist = %q", cfg.Player.Artist)
	}
	if cfg.Audio.SampleRate != 96000 {
		t.Errorf("Audio.SampleRate = %d", cfg.Audio.SampleRate)
	}
	if !cfg.Remote.MPRIS {
		t.Error("Remote.MPRIS = false, want true")
	}
	if len(cfg.Library.Extensions) != 2 {
		t.Errorf("Library.Extensions = %v", cfg.Library.Extensions)
	}
}

func TestEnvOverridesCoverEveryTunable(t *testing.T) {
	t.Setenv("SPOOL_AUDIO_UPDATE_INTERVAL_MS", "100")
	t.Setenv("SPOOL_LIBRARY_MAX_MEMORY_MB", "64")
	t.Setenv("SPOOL_TUI_HIDE_COVER", "true")
	t.Setenv("SPOOL_LOG_MAX_BACKUPS", "7")
	t.Setenv("SPOOL_LOG_MAX_AGE_DAYS", "14")
	t.Setenv("SPOOL_LOG_COMPRESS", "true")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"audio.update_interval_ms", cfg.Audio.UpdateIntervalMS, 100},
		{"library.max_memory_mb", cfg.Library.MaxMemoryMB, 64},
		{"tui.hide_cover", cfg.TUI.HideCover, true},
		{"log.max_backups", cfg.Log.MaxBackups, 7},
		{"log.max_age_days", cfg.Log.MaxAgeDays, 14},
		{"log.compress", cfg.Log.Compress, true},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad end of track", func(c *Config) { c.Player.EndOfTrack = "shuffle" }, true},
		{"low sample rate", func(c *Config) { c.Audio.SampleRate = 100 }, true},
		{"negative buffer", func(c *Config) { c.Audio.BufferMS = -1 }, true},
		{"extension without dot", func(c *Config) { c.Library.Extensions = []string{"mp3"} }, true},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := Default()
	if got := cfg.Audio.UpdateInterval().Milliseconds(); got != 250 {
		t.Errorf("UpdateInterval() = %dms, want 250ms", got)
	}
	if got := cfg.Library.MaxMemoryBytes(); got != 512<<20 {
		t.Errorf("MaxMemoryBytes() = %d", got)
	}
}

func TestLoadFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[tui]\ntheme = \"dark\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("SPOOL_TUI_THEME=light\n"), 0600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Cleanup(func() { _ = os.Unsetenv("SPOOL_TUI_THEME") })

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.TUI.Theme != "light" {
		t.Errorf("TUI.Theme = %q, want light from %s", cfg.TUI.Theme, DotEnvFile)
	}
}

func TestLogRotationDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if cfg.Log.MaxSizeMB != 10 || cfg.Log.MaxBackups != 3 || cfg.Log.MaxAgeDays != 28 {
		t.Errorf("Log = %+v, want 10 MB, 3 backups, 28 days", cfg.Log)
	}

	cfg.Log.MaxBackups = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() error = nil for negative max_backups")
	}
}
