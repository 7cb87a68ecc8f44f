// Package tui is the interactive browser: categories, notes, note detail
// with rendered TOC, plus inline rename. All edits go through the same
// optimistic mutation layer the CLI uses, so the lists update instantly and
// roll back if the server rejects the change.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"mynote-cli/internal/api"
	"mynote-cli/internal/nav"
	"mynote-cli/internal/store"
)

func Run(st *store.Store, client *api.Client, refresher *nav.Refresher, userID int64) error {
	m := newAppModel(st, client, refresher, userID)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
