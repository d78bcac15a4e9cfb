package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateCategoriesMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	cats := m.store.Categories()
	switch key {
	case k.Back, k.Cancel, k.Quit:
		m.mode = modeList
		m.refresh()
		m.status = "Back to list"
	case k.Down, "down":
		m.catCursor = clampCursor(m.catCursor+1, len(cats))
	case k.Up, "up":
		m.catCursor = clampCursor(m.catCursor-1, len(cats))
	case k.Add:
		m.mode = modeCategoryAdd
		m.input.SetValue("")
		m.input.Placeholder = "New category"
		m.input.Focus()
		m.status = "Type a category name and press Enter"
	case k.Delete:
		if len(cats) == 0 {
			m.status = "No categories"
			return m, nil
		}
		name := cats[clampCursor(m.catCursor, len(cats))]
		if err := m.store.RemoveCategory(name); err != nil {
			m.status = statusForErr("remove category", err)
			return m, nil
		}
		m.catCursor = clampCursor(m.catCursor, len(cats)-1)
		m.status = fmt.Sprintf("Removed category \"%s\"", name)
	}
	return m, nil
}

func (m Model) updateCategoryAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.mode = modeCategories
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		name := strings.TrimSpace(m.input.Value())
		if err := m.store.AddCategory(name); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.mode = modeCategories
		m.input.SetValue("")
		m.input.Blur()
		if name == "" {
			m.status = "Category name cannot be empty"
		} else {
			m.status = fmt.Sprintf("Added category \"%s\"", name)
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) renderCategories() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Manage Categories"))
	b.WriteString("\n")
	cats := m.store.Categories()
	if len(cats) == 0 {
		b.WriteString("No categories.\n")
	}
	for i, c := range cats {
		line := "  " + c
		if i == m.catCursor && m.mode == modeCategories {
			line = selectedStyle.Render("> " + c)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.mode == modeCategoryAdd {
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}
	return b.String()
}
