package core

import "path/filepath"

// DefaultArtist is the artist shown for uploaded tracks.
const DefaultArtist = "Unknown Artist"

// Track represents a playable audio track.
type Track struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Source string `json:"source"`
	Size   int64  `json:"size"`
}

// NewTrack builds a track for an uploaded file. The title is the file's base
// name; artist falls back to DefaultArtist when empty.
func NewTrack(fileName, artist, sourceID string, size int64) Track {
	if artist == "" {
		artist = DefaultArtist
	}
	return Track{
		ID:     sourceID,
		Title:  filepath.Base(fileName),
		Artist: artist,
		Source: sourceID,
		Size:   size,
	}
}
