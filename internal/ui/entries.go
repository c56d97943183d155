package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/timekeep/internal/entry"
)

const (
	colName     = 28
	colStarted  = 12
	colDuration = 10
	colState    = 9
)

// renderEntries renders the entry list with the selected row highlighted.
func (m Model) renderEntries() string {
	styles := m.theme.Styles()
	visible := m.visibleEntries()

	panel := styles.Panel.Width(max(layoutMinPanelWidth, m.width-4))
	if len(visible) == 0 {
		msg := "No entries. Press a to start one."
		if m.prefs.HideStopped && len(m.pres.Entries) > 0 {
			msg = "No running entries. Press f to show stopped ones."
		}
		return panel.Render(styles.MutedText.Render(msg))
	}

	showDesc := m.width >= layoutCompactWidth
	descWidth := max(10, m.width-colName-colStarted-colDuration-colState-12)

	var b strings.Builder
	header := padRight("NAME", colName) + " " +
		padRight("STARTED", colStarted) + " " +
		padRight("DURATION", colDuration) + " " +
		"STATE"
	if showDesc {
		header = padRight(header, colName+colStarted+colDuration+colState+4) + "DESCRIPTION"
	}
	b.WriteString(styles.FaintText.Render(header))

	rows := m.visibleRows()
	start := 0
	if m.selectedRow >= rows {
		start = m.selectedRow - rows + 1
	}
	end := min(len(visible), start+rows)

	for i := start; i < end; i++ {
		e := visible[i]
		b.WriteString("\n")

		state := stateStopped
		duration := entry.FormatDuration(e.Duration)
		if e.Running() {
			state = stateRunning
			duration = entry.FormatDuration(e.Elapsed(m.now))
		}

		line := padRight(truncate(e.Name, colName), colName) + " " +
			padRight(formatStarted(e, m.now), colStarted) + " " +
			padRight(duration, colDuration) + " "
		desc := ""
		if showDesc {
			desc = " " + truncate(e.Description, descWidth)
		}

		if i == m.selectedRow {
			b.WriteString(styles.Selected.Render(line + padRight(" "+state, colState) + desc))
			continue
		}
		b.WriteString(styles.Text.Render(line))
		b.WriteString(styles.StateStyle(state).Width(colState).Render(state))
		b.WriteString(styles.MutedText.Render(desc))
	}

	if len(visible) > rows {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(visible))))
	}
	return panel.Render(b.String())
}

// visibleRows is how many entry rows fit between header and footer.
func (m Model) visibleRows() int {
	chrome := 7
	if m.pres.Error {
		chrome++
	}
	return max(1, m.height-chrome)
}

func formatStarted(e entry.Entry, now time.Time) string {
	if e.StartedAt.IsZero() {
		return "-"
	}
	local := e.StartedAt.Local()
	y1, m1, d1 := local.Date()
	y2, m2, d2 := now.Local().Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return local.Format("15:04")
	}
	return local.Format("Jan 02 15:04")
}
