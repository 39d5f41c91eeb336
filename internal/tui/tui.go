package tui

import (
	"errors"

	"geoflow-cli/internal/scope"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives one editing session to completion. It reports whether the
// session ended with a successful save so the caller can refresh whatever
// surrounds it.
func Run(session *scope.Session) (bool, error) {
	p := tea.NewProgram(newAppModel(session), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(appModel)
	if !ok {
		return false, errors.New("unexpected final model")
	}
	if m.loadErr != "" {
		return false, errors.New(m.loadErr)
	}
	return m.saved, nil
}
