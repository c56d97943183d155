package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldName = iota
	fieldDescription
	fieldCount
)

// entryForm collects the name and description of a new entry.
type entryForm struct {
	active bool
	inputs [fieldCount]textinput.Model
	focus  int
}

func newEntryForm() entryForm {
	var f entryForm
	labels := [fieldCount]string{"Name", "Description"}
	limits := [fieldCount]int{120, 500}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.Prompt = padRight(labels[i]+":", 14)
		ti.CharLimit = limits[i]
		f.inputs[i] = ti
	}
	return f
}

// open clears the form and focuses the name field.
func (f *entryForm) open() tea.Cmd {
	f.active = true
	f.focus = fieldName
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	return tea.Batch(f.inputs[fieldName].Focus(), textinput.Blink)
}

func (f *entryForm) close() {
	f.active = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *entryForm) cycle() tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f entryForm) values() (name, description string) {
	return f.inputs[fieldName].Value(), f.inputs[fieldDescription].Value()
}

func (f entryForm) update(msg tea.Msg) (entryForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// handleFormKey routes keys while the add form is open. Printable keys go to
// the focused input, so global bindings like q do not apply here.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.form.close()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		cmd := m.form.cycle()
		return m, cmd
	case key.Matches(msg, m.keys.Confirm):
		name, description := m.form.values()
		if strings.TrimSpace(name) == "" {
			m.setFlash("name is required", true)
			return m, nil
		}
		m.form.close()
		return m, awaitCmd(m.ctx, "add", m.actions.AddEntry(name, description))
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("New entry"))
	b.WriteString("\n\n")
	for i := range m.form.inputs {
		b.WriteString(m.form.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter to start, tab to switch field, esc to cancel"))

	return styles.FocusPanel.Width(max(layoutMinPanelWidth, m.width-4)).Render(b.String())
}
