package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"dayplan/internal/planner"
)

// formState collects the fields of a new task one input at a time.
type formState struct {
	fields planner.Fields
	index  int
}

func formLabels() []string {
	return []string{"name", "date (YYYY-MM-DD)", "time (HH:MM)", "category", "location", "done (y/n)"}
}

func (fs formState) currentLabel() string {
	return formLabels()[fs.index]
}

func (fs formState) currentValue() string {
	switch fs.index {
	case 0:
		return fs.fields.Name
	case 1:
		return fs.fields.Date
	case 2:
		return fs.fields.Time
	case 3:
		return fs.fields.Category
	case 4:
		return fs.fields.Location
	case 5:
		return yesNo(fs.fields.Done)
	default:
		return ""
	}
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case 0:
		fs.fields.Name = v
	case 1:
		fs.fields.Date = v
	case 2:
		fs.fields.Time = v
	case 3:
		fs.fields.Category = v
	case 4:
		fs.fields.Location = v
	case 5:
		fs.fields.Done = parseYes(v)
	}
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

// parseYes reads the done field; anything but y, yes, x or true is pending.
func parseYes(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "x", "true":
		return true
	}
	return false
}

func (m Model) startAdd() (tea.Model, tea.Cmd) {
	f := planner.Fields{Date: m.now().Format("2006-01-02")}
	if cats := m.store.Categories(); len(cats) > 0 {
		f.Category = cats[0]
	}
	m.form = &formState{fields: f}
	m.mode = modeAdd
	m.syncFormInput()
	m.input.Focus()
	m.status = m.formPrompt()
	return m, nil
}

func (m *Model) syncFormInput() {
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index+1, len(formLabels()))
		m.syncFormInput()
		m.status = m.formPrompt()
		return m, nil
	case "shift+tab", "up":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index-1, len(formLabels()))
		m.syncFormInput()
		m.status = m.formPrompt()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formLabels())-1 {
			return m.saveForm()
		}
		m.form.index++
		m.syncFormInput()
		m.status = m.formPrompt()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	f := m.form.fields
	if strings.TrimSpace(f.Name) == "" {
		m.form.index = 0
		m.syncFormInput()
		m.status = "Name cannot be empty"
		return m, nil
	}
	id, err := m.store.Create(f)
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	m.form = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	m.refresh()
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			break
		}
	}
	m.status = fmt.Sprintf("Added \"%s\"", f.Name)
	return m, nil
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel.",
		m.form.currentLabel(), m.form.index+1, len(formLabels()))
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("Add a To-Do"))
	b.WriteString("\n")
	values := []string{m.form.fields.Name, m.form.fields.Date, m.form.fields.Time, m.form.fields.Category, m.form.fields.Location, yesNo(m.form.fields.Done)}
	for i, label := range formLabels() {
		prefix := " "
		val := values[i]
		if i == m.form.index {
			prefix = ">"
			val = m.input.View()
		} else if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-18s : %s\n", prefix, label, val))
	}
	if cats := m.store.Categories(); len(cats) > 0 {
		b.WriteString(metaStyle.Render("categories: " + strings.Join(cats, ", ")))
	}
	return b.String()
}
