package tui

import (
	"geoflow-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

type l1Item struct {
	node    model.CategoryNode
	current bool
}

func (i l1Item) FilterValue() string { return i.node.Name }
func (i l1Item) Title() string {
	if i.current {
		return "● " + i.node.Name
	}
	return "  " + i.node.Name
}
func (i l1Item) Description() string { return i.node.Code }

type l2Item struct {
	node    model.CategoryNode
	l1ID    string
	current bool
}

func (i l2Item) FilterValue() string { return i.node.Name }
func (i l2Item) Title() string {
	if i.current {
		return "● " + i.node.Name
	}
	return "  " + i.node.Name
}
func (i l2Item) Description() string { return i.node.Code }

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, newCompactDelegate(), 0, 0)
	l.Title = title
	// We render our own chrome (borders, footer, flash line), so keep the
	// list minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// Bubble list defaults to quitting on ESC; here ESC is "back".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}

func newCompactDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	d.SetSpacing(0)
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(colorAccent).BorderForeground(colorAccent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(colorAccent).BorderForeground(colorAccent)
	return d
}

func selectL1Item(l *list.Model, id string) {
	for i, it := range l.Items() {
		if li, ok := it.(l1Item); ok && li.node.ID == id {
			l.Select(i)
			return
		}
	}
}

func selectL2Item(l *list.Model, id string) {
	for i, it := range l.Items() {
		if li, ok := it.(l2Item); ok && li.node.ID == id {
			l.Select(i)
			return
		}
	}
}
