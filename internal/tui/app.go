package tui

import (
	"context"
	"fmt"
	"strings"

	"geoflow-cli/internal/scope"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type pane int

const (
	paneL1 pane = iota
	paneL2
	paneRows
)

type field int

const (
	fieldActive field = iota
	fieldUnit
	fieldDesign
	fieldCompleted
	// fieldNone marks display-only cells (code/name).
	fieldNone
)

type catalogLoadedMsg struct{ err error }

type saveDoneMsg struct{ err error }

// appModel is one editing session on screen. All session state (snapshot,
// buffer, selection) lives in the scope.Session; the model only adds view
// concerns: pane focus, row/column cursor and the cell editor.
type appModel struct {
	session *scope.Session

	width  int
	height int

	pane   pane
	l1List list.Model
	l2List list.Model
	rowIdx int
	col    field

	editing bool
	input   textinput.Model

	loading bool
	saving  bool
	loadErr string

	flash    string
	flashErr bool

	saved bool
}

func newAppModel(session *scope.Session) appModel {
	m := appModel{
		session: session,
		pane:    paneRows,
		loading: true,
	}
	m.l1List = newList("Categories", []list.Item{})
	m.l2List = newList("Sub-categories", []list.Item{})

	m.input = textinput.New()
	m.input.CharLimit = 40
	m.input.Prompt = ""
	return m
}

func (m appModel) Init() tea.Cmd {
	return m.loadCatalog()
}

// loadCatalog runs the one-time snapshot fetch off the update loop; the
// session's own guard makes a second invocation a no-op.
func (m appModel) loadCatalog() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return catalogLoadedMsg{err: s.Open(context.Background())}
	}
}

func (m appModel) saveScope() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return saveDoneMsg{err: s.Save(context.Background())}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case catalogLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err.Error()
			return m, nil
		}
		m.refreshLists()
		return m, nil

	case saveDoneMsg:
		m.saving = false
		if msg.err != nil {
			// Buffer and view are untouched; the user can retry.
			m.flash = msg.err.Error()
			m.flashErr = true
			return m, nil
		}
		// A successful save ends the session; the caller re-derives a
		// fresh baseline (the page-reload equivalent).
		m.saved = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loadErr != "" {
		switch msg.String() {
		case "q", "esc", "ctrl+c", "enter":
			return m, tea.Quit
		}
		return m, nil
	}
	if m.loading || m.saving {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.editing {
		return m.updateEditKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "ctrl+s":
		if m.session.Empty() {
			m.flash = "Nothing to save: the catalog is empty."
			m.flashErr = true
			return m, nil
		}
		m.saving = true
		m.flash = ""
		return m, m.saveScope()
	case "tab":
		m.pane = (m.pane + 1) % 3
		return m, nil
	case "shift+tab":
		m.pane = (m.pane + 2) % 3
		return m, nil
	}

	switch m.pane {
	case paneL1:
		return m.updateL1Key(msg)
	case paneL2:
		return m.updateL2Key(msg)
	default:
		return m.updateRowsKey(msg)
	}
}

func (m appModel) updateL1Key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "l", "right":
		if it, ok := m.l1List.SelectedItem().(l1Item); ok {
			m.session.SelectL1(it.node.ID)
			m.refreshLists()
			m.pane = paneL2
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.l1List, cmd = m.l1List.Update(msg)
	return m, cmd
}

func (m appModel) updateL2Key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "h", "left":
		m.pane = paneL1
		return m, nil
	case "enter", "l", "right":
		if it, ok := m.l2List.SelectedItem().(l2Item); ok {
			m.session.SelectL2(it.l1ID, it.node.ID)
			m.refreshLists()
			m.pane = paneRows
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.l2List, cmd = m.l2List.Update(msg)
	return m, cmd
}

func (m appModel) updateRowsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.session.Rows()
	switch msg.String() {
	case "esc":
		m.pane = paneL2
		return m, nil
	case "up", "k", "ctrl+p":
		if m.rowIdx > 0 {
			m.rowIdx--
		}
		return m, nil
	case "down", "j", "ctrl+n":
		if m.rowIdx < len(rows)-1 {
			m.rowIdx++
		}
		return m, nil
	case "left", "h":
		if m.col > fieldActive {
			m.col--
		}
		return m, nil
	case "right", "l":
		if m.col < fieldCompleted {
			m.col++
		}
		return m, nil
	case " ":
		m.session.ToggleActive(m.rowIdx)
		return m, nil
	case "enter":
		if m.rowIdx >= len(rows) {
			return m, nil
		}
		if m.col == fieldActive {
			m.session.ToggleActive(m.rowIdx)
			return m, nil
		}
		if !rows[m.rowIdx].Enabled() {
			m.flash = "Row is inactive; toggle it first (space)."
			m.flashErr = false
			return m, nil
		}
		return m.startEditing(rows[m.rowIdx]), nil
	}
	return m, nil
}

func (m appModel) startEditing(r scope.Row) appModel {
	var cur string
	switch m.col {
	case fieldUnit:
		cur = r.Record.Unit
	case fieldDesign:
		cur = r.Record.DesignQty
	case fieldCompleted:
		cur = r.Record.CompletedQty
	}
	m.editing = true
	m.input.SetValue(cur)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m appModel) updateEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		v := strings.TrimSpace(m.input.Value())
		switch m.col {
		case fieldUnit:
			m.session.SetUnit(m.rowIdx, v)
		case fieldDesign:
			m.session.SetDesignQty(m.rowIdx, v)
		case fieldCompleted:
			m.session.SetCompletedQty(m.rowIdx, v)
		}
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refreshLists rebuilds both category lists from the session selection and
// clamps the row cursor. Called after load and after every navigation.
func (m *appModel) refreshLists() {
	snap := m.session.Snapshot()
	if snap == nil {
		return
	}

	var l1Items []list.Item
	for _, n := range snap.L1List() {
		l1Items = append(l1Items, l1Item{node: n, current: n.ID == m.session.SelectedL1()})
	}
	m.l1List.SetItems(l1Items)
	selectL1Item(&m.l1List, m.session.SelectedL1())

	var l2Items []list.Item
	for _, n := range snap.L2For(m.session.SelectedL1()) {
		l2Items = append(l2Items, l2Item{node: n, l1ID: m.session.SelectedL1(), current: n.ID == m.session.SelectedL2()})
	}
	m.l2List.SetItems(l2Items)
	selectL2Item(&m.l2List, m.session.SelectedL2())

	if n := len(m.session.Rows()); m.rowIdx >= n {
		m.rowIdx = 0
	}
}

func (m *appModel) resize() {
	h := m.bodyHeight()
	m.l1List.SetSize(m.l1Width()-4, h)
	m.l2List.SetSize(m.l2Width()-4, h)
}

func (m appModel) bodyHeight() int {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	return h
}

func (m appModel) l1Width() int { return 24 }
func (m appModel) l2Width() int { return 28 }

func (m appModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("GeoFlow Work Scope — project %s", m.session.ProjectID()))

	var body string
	switch {
	case m.loading:
		body = mutedStyle.Render("Loading catalog…")
	case m.loadErr != "":
		body = errorStyle.Render("Catalog load failed: "+m.loadErr) + "\n" +
			mutedStyle.Render("Close and reopen to retry (q to quit).")
	case m.session.Empty():
		body = mutedStyle.Render("No catalog categories defined yet.")
	default:
		h := m.bodyHeight()
		rowsW := m.width - m.l1Width() - m.l2Width() - 4
		if rowsW < 50 {
			rowsW = 50
		}
		l1Pane := paneStyle(m.pane == paneL1).Width(m.l1Width()).Height(h).Render(m.l1List.View())
		l2Pane := paneStyle(m.pane == paneL2).Width(m.l2Width()).Height(h).Render(m.l2List.View())
		rowsPane := paneStyle(m.pane == paneRows).Width(rowsW).Height(h).Render(m.viewRowTable(rowsW - 4))
		body = lipgloss.JoinHorizontal(lipgloss.Top, l1Pane, l2Pane, rowsPane)
	}

	status := ""
	switch {
	case m.saving:
		status = mutedStyle.Render("Saving…")
	case m.flash != "" && m.flashErr:
		status = errorStyle.Render(m.flash)
	case m.flash != "":
		status = okStyle.Render(m.flash)
	}

	footer := footerStyle.Render("tab: pane  enter: select/edit  space: toggle  ctrl+s: save  q: quit")
	return strings.Join([]string{header, body, status, footer}, "\n")
}
