// Package tui renders the table widget in a terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stevemurr/simple-user-table/record"
	"github.com/stevemurr/simple-user-table/state"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	formStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

type focus int

const (
	focusForm focus = iota
	focusTable
)

// Model is the bubbletea model. Every change goes through app.Dispatch;
// the model only keeps what the user is typing and where the cursor is.
type Model struct {
	app    *state.App
	inputs []textinput.Model
	field  int
	focus  focus
	cursor int
	view   state.View
	err    error
}

// New returns a Model showing app.
func New(app *state.App) Model {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "Name"
	name.CharLimit = 64
	name.Focus()

	age := textinput.New()
	age.Prompt = ""
	age.Placeholder = "Age"
	age.CharLimit = 8

	m := Model{app: app, inputs: []textinput.Model{name, age}}
	m.refresh()
	m.loadDraft()
	return m
}

// Run blocks until the user quits.
func Run(app *state.App) error {
	_, err := tea.NewProgram(New(app)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// refresh reloads the snapshot and keeps the cursor on a row.
func (m *Model) refresh() {
	v, err := m.app.View()
	if err != nil {
		m.err = err
		return
	}
	m.view = v
	if m.cursor >= len(v.Records) {
		m.cursor = max(len(v.Records)-1, 0)
	}
}

// loadDraft puts the current form's draft into the inputs, replacing
// whatever was typed.
func (m *Model) loadDraft() {
	form := m.view.Add
	if m.view.Editing() {
		form = m.view.Edit
	}
	m.inputs[0].SetValue(form.Draft.Name)
	m.inputs[1].SetValue(string(form.Draft.Age))
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}
}

// dispatch applies act. Form actions reload the inputs from state; other
// actions leave unsubmitted text alone.
func (m *Model) dispatch(act state.Action) {
	if _, err := m.app.Dispatch(act); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.refresh()
	switch act.(type) {
	case state.AddUser, state.UpdateUser, state.EditUser, state.CancelEdit:
		m.loadDraft()
	}
}

func (m *Model) focusField(i int) tea.Cmd {
	m.field = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i && m.focus == focusForm {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	return m.focusField(m.field)
}

func (m Model) draft() record.Record {
	return record.Record{
		Name: m.inputs[0].Value(),
		Age:  record.Age(m.inputs[1].Value()),
	}
}

func (m Model) selected() (record.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Records) {
		return record.Record{}, false
	}
	return m.view.Records[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInput(msg)
	}
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		next := focusForm
		if m.focus == focusForm {
			next = focusTable
		}
		cmd := m.setFocus(next)
		return m, cmd
	}
	if m.focus == focusTable {
		return m.updateTable(key)
	}
	return m.updateForm(key)
}

func (m Model) updateForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "shift+tab":
		cmd := m.focusField((m.field + len(m.inputs) - 1) % len(m.inputs))
		return m, cmd
	case "down":
		cmd := m.focusField((m.field + 1) % len(m.inputs))
		return m, cmd
	case "enter":
		if m.view.Editing() {
			m.dispatch(state.UpdateUser{ID: m.view.Edit.Draft.ID, Draft: m.draft()})
		} else {
			m.dispatch(state.AddUser{Draft: m.draft()})
		}
		cmd := m.focusField(0)
		return m, cmd
	case "esc":
		if m.view.Editing() {
			m.dispatch(state.CancelEdit{})
		}
		return m, nil
	}
	return m.updateInput(key)
}

func (m Model) updateTable(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Records)-1 {
			m.cursor++
		}
	case "e":
		if r, ok := m.selected(); ok {
			m.dispatch(state.EditUser{ID: r.ID})
			m.field = 0
			cmd := m.setFocus(focusForm)
			return m, cmd
		}
	case "d":
		if r, ok := m.selected(); ok {
			m.dispatch(state.DeleteUser{ID: r.ID})
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CRUD Operations"))
	b.WriteString("\n")
	b.WriteString(formStyle.Render(m.formView()))
	b.WriteString("\n\n")
	b.WriteString(m.tableView())
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) formView() string {
	form := m.view.Add
	heading := "Add user"
	if m.view.Editing() {
		form = m.view.Edit
		heading = fmt.Sprintf("Edit user #%d", m.view.Edit.Draft.ID)
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(heading))
	b.WriteString("\n")
	fields := []struct{ label, key string }{
		{"Name", record.FieldName},
		{"Age", record.FieldAge},
	}
	for i, f := range fields {
		fmt.Fprintf(&b, "%-5s %s\n", f.label, m.inputs[i].View())
		if msg, ok := form.Errors[f.key]; ok {
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) tableView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-24s %-6s %s", "Name", "Age", "Actions")))
	b.WriteString("\n")
	for i, r := range m.view.Records {
		line := fmt.Sprintf("%-24s %-6s %s", r.Name, r.Age, "[e]dit [d]elete")
		if m.focus == focusTable && i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) help() string {
	if m.focus == focusTable {
		return "↑/↓ move • e edit • d delete • tab form • q quit"
	}
	if m.view.Editing() {
		return "enter update • esc cancel • tab table • ctrl+c quit"
	}
	return "enter create • tab table • ctrl+c quit"
}
