// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tessro/spool/internal/config"
)

// Setup points the global logger at the configured sink. When cfg.File is
// empty, logs go to console; pass io.Discard as console when the terminal
// belongs to the TUI. Otherwise JSON lines go to a rotated file. The
// returned closer releases the log file, if any.
func Setup(cfg config.LogConfig, console io.Writer, verbose bool) (io.Closer, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.File == "" {
		log.Logger = zerolog.New(consoleWriter(console)).With().Timestamp().Logger()
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return f, nil
}

func consoleWriter(out io.Writer) io.Writer {
	if out == io.Discard {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
}

func parseLevel(s string) (zerolog.Level, error) {
	switch s {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid log level: %s", s)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
