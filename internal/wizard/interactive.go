// Package wizard runs interactive prompts when spool is attached to a
// terminal.
package wizard

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if both stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
