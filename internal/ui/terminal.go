package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

var terminalInitialized bool

// IsInteractive reports whether stdin and stdout are both terminals and the
// user did not ask for non-interactive mode.
func IsInteractive() bool {
	if GetGlobal().NonInteractive {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// InitTerminal must run before the picker starts. Pre-setting COLORFGBG
// stops termenv from sending an OSC 11 background query whose reply would
// otherwise leak into stdout.
func InitTerminal() {
	if terminalInitialized {
		return
	}
	terminalInitialized = true
	if os.Getenv("COLORFGBG") == "" {
		_ = os.Setenv("COLORFGBG", "0;15")
	}
}

// ResetTerminalAfterTUI restores cursor and reporting modes after a
// bubbletea program exits.
func ResetTerminalAfterTUI() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	fmt.Fprint(os.Stdout, "\033[?1004l") // focus reporting
	fmt.Fprint(os.Stdout, "\033[?1000l") // mouse tracking
	fmt.Fprint(os.Stdout, "\033[?25h")   // cursor
	fmt.Fprint(os.Stdout, "\r")
}
