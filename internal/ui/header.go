package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/timekeep/internal/entry"
)

// renderHeader renders the status bar: badge, totals and progress toward
// the daily target. A second line carries the error text while the store is
// in the error state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	badge := styles.StateStyle(stateOK).Render("OK")
	if m.pres.Error {
		badge = styles.StateStyle(stateError).Render("ERROR")
	}

	running := 0
	for _, e := range m.pres.Entries {
		if e.Running() {
			running++
		}
	}

	parts := []string{
		styles.Logo.Render("timekeep"),
		badge,
		styles.Text.Render("Total " + entry.FormatDuration(m.pres.Total)),
		m.progress.ViewAs(targetRatio(m.pres)),
		styles.FaintText.Render(fmt.Sprintf("of %s", entry.FormatDuration(hoursTarget))),
		styles.MutedText.Render(fmt.Sprintf("%d entries, %d running", len(m.pres.Entries), running)),
	}
	if m.prefs.HideStopped {
		parts = append(parts, styles.WarningText.Render("[running only]"))
	}

	lines := []string{strings.Join(parts, "  ")}
	if m.pres.Error {
		lines = append(lines, styles.DangerText.Render("! "+m.pres.ErrorText)+
			styles.FaintText.Render("  (showing last good data, r to retry)"))
	}
	return styles.Header.Width(m.width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func targetRatio(p Presentation) float64 {
	ratio := float64(p.Total) / float64(hoursTarget)
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	default:
		return ratio
	}
}
