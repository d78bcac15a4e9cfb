package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"dayplan/internal/calendar"
)

var weekdayHeader = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (m Model) openCalendar() (tea.Model, tea.Cmd) {
	m.mode = modeCalendar
	m.rebuildGrid()
	return m, nil
}

// rebuildGrid recomputes the month grid for the current cursor and clamps
// the selected day into the month.
func (m *Model) rebuildGrid() {
	grid, err := m.cal.Build(m.store.List())
	if err != nil {
		m.status = fmt.Sprintf("calendar: %v", err)
		return
	}
	m.grid = grid
	n := calendar.DaysIn(m.cal.Year, m.cal.Month)
	if m.day < 1 {
		m.day = 1
	}
	if m.day > n {
		m.day = n
	}
	m.status = m.cal.String()
}

func (m Model) updateCalendarMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case k.Back, k.Cancel, k.Quit:
		m.mode = modeList
		m.refresh()
		m.status = "Back to list"
		return m, nil
	case k.PrevMonth:
		m.cal = m.cal.Prev()
	case k.NextMonth:
		m.cal = m.cal.Next()
	case k.PrevYear:
		if m.cal.Year > calendar.MinYear {
			m.cal = m.cal.WithYear(m.cal.Year - 1)
		}
	case k.NextYear:
		if m.cal.Year < calendar.MaxYear {
			m.cal = m.cal.WithYear(m.cal.Year + 1)
		}
	case "h", "left":
		m.moveDay(-1)
		return m, nil
	case "l", "right":
		m.moveDay(1)
		return m, nil
	case "k", "up":
		m.moveDay(-7)
		return m, nil
	case "j", "down":
		m.moveDay(7)
		return m, nil
	case k.PickMonth:
		return m.openPicker(pickMonth)
	case k.PickYear:
		return m.openPicker(pickYear)
	case k.Detail:
		return m.openDay()
	default:
		return m, nil
	}
	m.rebuildGrid()
	return m, nil
}

// moveDay shifts the selected day within the month; moves that leave the
// month are ignored.
func (m *Model) moveDay(delta int) {
	next := m.day + delta
	if next < 1 || next > calendar.DaysIn(m.cal.Year, m.cal.Month) {
		return
	}
	m.day = next
	if c, ok := m.grid.Day(m.day); ok {
		m.status = fmt.Sprintf("%s • %d task(s)", c.Date, len(c.Tasks))
	}
}

func (m Model) openDay() (tea.Model, tea.Cmd) {
	m.mode = modeDay
	m.dayCursor = 0
	m.reloadDay()
	return m, nil
}

func (m *Model) reloadDay() {
	date := calendar.DateKey(m.cal.Year, m.cal.Month, m.day)
	m.dayTasks = calendar.TasksOnDate(m.store.List(), date)
	m.dayCursor = clampCursor(m.dayCursor, len(m.dayTasks))
	m.status = fmt.Sprintf("%s • %d task(s)", date, len(m.dayTasks))
}

func (m Model) updateDayMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case k.Back, k.Cancel:
		m.mode = modeCalendar
		m.rebuildGrid()
	case k.Down, "down":
		m.dayCursor = clampCursor(m.dayCursor+1, len(m.dayTasks))
	case k.Up, "up":
		m.dayCursor = clampCursor(m.dayCursor-1, len(m.dayTasks))
	case k.Toggle:
		if len(m.dayTasks) == 0 {
			return m, nil
		}
		task := m.dayTasks[m.dayCursor]
		_, err := m.store.Toggle(task.ID)
		m.reloadDay()
		if err != nil {
			m.status = statusForErr("toggle", err)
		}
	}
	return m, nil
}

func (m Model) renderCalendar() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.cal.String()))
	b.WriteString("\n")
	for _, d := range weekdayHeader {
		b.WriteString(dayStyle.Render(d))
	}
	b.WriteString("\n")
	for _, week := range m.grid.Weeks {
		for _, c := range week {
			if c.Blank() {
				b.WriteString(dayStyle.Render(""))
				continue
			}
			label := fmt.Sprintf("%2d", c.Day)
			if n := len(c.Tasks); n > 0 {
				label += fmt.Sprintf("·%d", n)
			}
			style := dayStyle
			if len(c.Tasks) > 0 {
				style = busyDayStyle
			}
			if c.Day == m.day {
				style = cursorDay
			}
			b.WriteString(style.Render(label))
		}
		b.WriteString("\n")
	}
	if c, ok := m.grid.Day(m.day); ok && len(c.Tasks) > 0 {
		names := make([]string, 0, len(c.Tasks))
		for _, t := range c.Tasks {
			names = append(names, t.Name)
		}
		b.WriteString(metaStyle.Render(c.Date + ": " + strings.Join(names, ", ")))
	}
	return b.String()
}

func (m Model) renderDay() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(calendar.DateKey(m.cal.Year, m.cal.Month, m.day)))
	b.WriteString("\n")
	if len(m.dayTasks) == 0 {
		b.WriteString("No tasks on this day.")
		return b.String()
	}
	for i, t := range m.dayTasks {
		b.WriteString(renderTaskLine(t, i == m.dayCursor))
		b.WriteString(metaStyle.Render(", Location: " + emptyPlaceholder(t.Location)))
		b.WriteString("\n")
	}
	return b.String()
}
