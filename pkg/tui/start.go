package tui

import (
	"fmt"
	"os"

	"fundwatch/pkg/config"
	"fundwatch/pkg/fund"
	"fundwatch/pkg/notes"
	"fundwatch/pkg/submit"
	"fundwatch/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
)

func Start(w *watcher.Watcher, client *fund.Client, submitter *submit.Submitter, notesClient *notes.Client, cfg config.Config, configPath, version string) {
	Version = version
	p := tea.NewProgram(
		initialModel(w, client, submitter, notesClient, cfg, configPath),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
