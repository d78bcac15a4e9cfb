package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dayplan/internal/calendar"
)

type pickKind int

const (
	pickMonth pickKind = iota
	pickYear
)

// pickerWindow caps how many options are drawn at once.
const pickerWindow = 12

// picker selects the calendar month or year directly from a list.
type picker struct {
	kind    pickKind
	options []int
	cursor  int
}

func (p picker) label(v int) string {
	if p.kind == pickMonth {
		return time.Month(v).String()
	}
	return strconv.Itoa(v)
}

func (p picker) title() string {
	if p.kind == pickMonth {
		return "Select month"
	}
	return "Select year"
}

func (m Model) openPicker(kind pickKind) (tea.Model, tea.Cmd) {
	p := picker{kind: kind}
	switch kind {
	case pickMonth:
		for mo := 1; mo <= 12; mo++ {
			p.options = append(p.options, mo)
		}
		p.cursor = int(m.cal.Month) - 1
	case pickYear:
		for y := calendar.MinYear; y <= calendar.MaxYear; y++ {
			p.options = append(p.options, y)
		}
		p.cursor = clampCursor(m.cal.Year-calendar.MinYear, len(p.options))
	}
	m.pick = p
	m.mode = modePick
	m.status = p.title()
	return m, nil
}

func (m Model) updatePickMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case k.Back, k.Cancel:
		m.mode = modeCalendar
		m.status = m.cal.String()
	case k.Down, "down":
		m.pick.cursor = clampCursor(m.pick.cursor+1, len(m.pick.options))
	case k.Up, "up":
		m.pick.cursor = clampCursor(m.pick.cursor-1, len(m.pick.options))
	case k.Confirm, "enter":
		v := m.pick.options[m.pick.cursor]
		if m.pick.kind == pickMonth {
			m.cal = m.cal.WithMonth(time.Month(v))
		} else {
			m.cal = m.cal.WithYear(v)
		}
		m.mode = modeCalendar
		m.rebuildGrid()
	}
	return m, nil
}

func (m Model) renderPicker() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.pick.title()))
	b.WriteString("\n")

	start := max(0, m.pick.cursor-pickerWindow/2)
	end := min(len(m.pick.options), start+pickerWindow)
	start = max(0, end-pickerWindow)
	for i := start; i < end; i++ {
		line := "  " + m.pick.label(m.pick.options[i])
		if i == m.pick.cursor {
			line = selectedStyle.Render("> " + m.pick.label(m.pick.options[i]))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(m.pick.options) {
		b.WriteString(metaStyle.Render(fmt.Sprintf("(%d more)", len(m.pick.options)-end)))
	}
	return b.String()
}
