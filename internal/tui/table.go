package tui

import (
	"strings"

	"geoflow-cli/internal/qty"
	"geoflow-cli/internal/scope"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	colWidthActive    = 4
	colWidthCode      = 10
	colWidthUnit      = 10
	colWidthDesign    = 12
	colWidthCompleted = 12
)

// fit truncates (ellipsis) and right-pads to a display width, CJK-aware.
func fit(s string, w int) string {
	s = ansi.Truncate(s, w, "…")
	if gap := w - lipgloss.Width(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m appModel) rowTableHeader(nameW int) string {
	h := fit("Use", colWidthActive) +
		fit("Code", colWidthCode) +
		fit("Work item", nameW) +
		fit("Unit", colWidthUnit) +
		fit("Design", colWidthDesign) +
		fit("Done", colWidthCompleted)
	return mutedStyle.Render(h)
}

// renderRow renders one work-item row. The cursor row gets the selection
// background; value cells of disabled rows render muted but keep their text
// so the user can see what re-enabling restores.
func (m appModel) renderRow(r scope.Row, idx, nameW int) string {
	cursor := m.pane == paneRows && idx == m.rowIdx

	cell := func(f field, raw string, w int) string {
		if cursor && m.editing && m.col == f {
			return fit(m.input.View(), w)
		}
		s := fit(raw, w)
		switch {
		case cursor && m.col == f:
			return selStyle.Render(s)
		case f != fieldActive && !r.Enabled():
			return faintIfDark(mutedStyle).Render(s)
		default:
			return s
		}
	}

	line := cell(fieldActive, checkbox(r.Record.Active), colWidthActive) +
		cell(fieldNone, r.Item.Code, colWidthCode) +
		cell(fieldNone, r.Item.Name, nameW) +
		cell(fieldUnit, r.Record.Unit, colWidthUnit) +
		cell(fieldDesign, displayQty(r.Record.DesignQty), colWidthDesign) +
		cell(fieldCompleted, displayQty(r.Record.CompletedQty), colWidthCompleted)

	if cursor && !m.editing {
		return "▸ " + line
	}
	return "  " + line
}

// displayQty shows raw text while it still matches the canonical form, and
// the canonical form otherwise. Unparseable text is shown as typed so the
// user can fix it.
func displayQty(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if f := qty.Format(raw); f != "" {
		return f
	}
	return raw
}

func (m appModel) viewRowTable(width int) string {
	nameW := width - colWidthActive - colWidthCode - colWidthUnit - colWidthDesign - colWidthCompleted - 2
	if nameW < 12 {
		nameW = 12
	}

	rows := m.session.Rows()
	if len(rows) == 0 {
		return mutedStyle.Render("No work items in this branch.")
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, "  "+m.rowTableHeader(nameW))
	for i, r := range rows {
		lines = append(lines, m.renderRow(r, i, nameW))
	}
	return strings.Join(lines, "\n")
}
