// Package remote exposes the player to desktop media controls.
package remote

import (
	"fmt"

	"github.com/tessro/spool/internal/core"
)

// Command is a transport request from outside the event loop.
type Command int

const (
	CommandPlayPause Command = iota
	CommandPlay
	CommandPause
	CommandStop
	CommandNext
	CommandPrevious
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandPlayPause:
		return "play_pause"
	case CommandPlay:
		return "play"
	case CommandPause:
		return "pause"
	case CommandStop:
		return "stop"
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Dispatcher hands a command to the event loop. It must not block.
type Dispatcher func(Command)

// Apply runs cmd against p. It must be called from the goroutine that owns p.
// CommandQuit is left to the caller.
func Apply(p core.Player, cmd Command) error {
	switch cmd {
	case CommandPlayPause:
		return p.TogglePlayPause()
	case CommandPlay:
		return p.Play()
	case CommandPause, CommandStop:
		return p.Pause()
	case CommandNext:
		return p.Next()
	case CommandPrevious:
		return p.Prev()
	case CommandQuit:
		return nil
	default:
		return fmt.Errorf("unknown remote command %d", int(cmd))
	}
}
