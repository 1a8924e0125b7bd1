package main

import "github.com/aitoolbox/aitoolbox-cli/internal/ui"

func main() {
	// Before any lipgloss/bubbletea use, so termenv skips its background query.
	ui.InitTerminal()

	Execute()
}
