package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/timekeep/internal/logtail"
)


var logLevels = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

type logLinesMsg struct {
	lines []string
	err   error
}

func (m Model) readLogs() tea.Cmd {
	path, level := m.logFile, m.logLevel
	return func() tea.Msg {
		lines, err := logtail.Tail(path, logBufferLimit, level)
		return logLinesMsg{lines: lines, err: err}
	}
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.CycleLevel) {
		m.logLevel = nextLevel(m.logLevel)
		return m, m.readLogs()
	}
	return m, nil
}

func nextLevel(current slog.Level) slog.Level {
	for i, level := range logLevels {
		if level == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return slog.LevelInfo
}

// renderLogs shows the newest lines that fit on screen.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	title := styles.AccentText.Bold(true).Render("Log") +
		styles.FaintText.Render(fmt.Sprintf("  level >= %s  %s", m.logLevel, m.logFile))

	var body string
	switch {
	case m.logFile == "":
		body = styles.MutedText.Render("Logging is disabled.")
	case m.logErr != nil:
		body = styles.DangerText.Render(m.logErr.Error())
	case len(m.logLines) == 0:
		body = styles.MutedText.Render("No log lines yet.")
	default:
		rows := m.visibleRows()
		lines := m.logLines
		if len(lines) > rows {
			lines = lines[len(lines)-rows:]
		}
		width := max(20, m.width-8)
		rendered := make([]string, len(lines))
		for i, line := range lines {
			rendered[i] = styleLogLine(styles, truncate(line, width))
		}
		body = strings.Join(rendered, "\n")
	}

	return styles.Panel.Width(max(layoutMinPanelWidth, m.width-4)).Render(title + "\n" + body)
}

func styleLogLine(styles Styles, line string) string {
	switch level := logtail.LineLevel(line); {
	case level >= slog.LevelError:
		return styles.DangerText.Render(line)
	case level >= slog.LevelWarn:
		return styles.WarningText.Render(line)
	case level < slog.LevelInfo:
		return styles.FaintText.Render(line)
	default:
		return styles.Text.Render(line)
	}
}
