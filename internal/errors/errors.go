package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrEmptyPlaylist     = errors.New("playlist is empty")
	ErrTrackNotFound     = errors.New("track not found")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrSourceReleased    = errors.New("source released")
	ErrStoreFull         = errors.New("upload memory limit reached")
	ErrNoAudioDevice     = errors.New("no audio output device")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// SpoolError wraps an error with a user-friendly suggestion.
type SpoolError struct {
	Err        error
	Suggestion string
}

func (e *SpoolError) Error() string {
	return e.Err.Error()
}

func (e *SpoolError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &SpoolError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var spoolErr *SpoolError
	if errors.As(err, &spoolErr) && spoolErr.Suggestion != "" {
		return spoolErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrEmptyPlaylist) {
		return "Press 'a' to add audio files, or pass them on the command line"
	}

	if errors.Is(err, ErrTrackNotFound) {
		return "Pick a track from the playlist"
	}

	if errors.Is(err, ErrUnsupportedFormat) || strings.Contains(errStr, "unsupported") {
		return "Supported formats are mp3, wav, flac and ogg vorbis"
	}

	if errors.Is(err, ErrStoreFull) {
		return "Raise library.max_memory_mb in your config or add fewer files"
	}

	if errors.Is(err, ErrNoAudioDevice) || strings.Contains(errStr, "audio device") {
		return "Check that a sound card is available and not held by another program"
	}

	if errors.Is(err, ErrConfigNotFound) {
		return "Run 'spool config init' to create a configuration file"
	}

	if errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'spool config show' to review your configuration"
	}

	if strings.Contains(errStr, "no such file") || strings.Contains(errStr, "permission denied") {
		return "Check the file path and its permissions"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// Err joins all collected errors, or returns nil.
func (p *PartialResult[T]) Err() error {
	return errors.Join(p.Errors...)
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
