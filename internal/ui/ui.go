package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"dayplan/internal/calendar"
	"dayplan/internal/config"
	"dayplan/internal/planner"
	"dayplan/internal/query"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeCalendar
	modeDay
	modeCategories
	modeCategoryAdd
	modePick
)

type Model struct {
	store      *planner.Store
	cfg        config.Config
	logger     *log.Logger
	tasks      []planner.Task
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	filter     query.Filter
	sort       query.SortKey
	confirmDel bool
	pendingDel *planner.Task
	form       *formState
	cal        calendar.Cursor
	grid       calendar.Grid
	day        int
	dayTasks   []planner.Task
	dayCursor  int
	catCursor  int
	pick       picker
	now        func() time.Time
}

// New builds the model. Filter and sort defaults come from cfg, which has
// already been validated.
func New(store *planner.Store, cfg config.Config, logger *log.Logger) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	filter, _ := query.ParseFilter(cfg.DefaultFilter)
	sortKey, _ := query.ParseSortKey(cfg.DefaultSort)

	m := Model{
		store:  store,
		cfg:    cfg,
		logger: logger,
		input:  ti,
		mode:   modeList,
		filter: filter,
		sort:   sortKey,
		status: fmt.Sprintf("Press '%s' to add, '%s' for calendar, '%s' for categories.", cfg.Keys.Add, cfg.Keys.Calendar, cfg.Keys.Categories),
		now:    time.Now,
	}
	m.cal = calendar.CursorAt(m.now())
	m.day = m.now().Day()
	m.refresh()
	return m
}

func Run(store *planner.Store, cfg config.Config, logger *log.Logger) error {
	program := tea.NewProgram(New(store, cfg, logger))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeCalendar:
		return m.updateCalendarMode(key)
	case modeDay:
		return m.updateDayMode(key)
	case modeCategories:
		return m.updateCategoriesMode(key)
	case modeCategoryAdd:
		return m.updateCategoryAddMode(key, msg)
	case modePick:
		return m.updatePickMode(key)
	}
	return m.updateListMode(key)
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case m.cfg.Keys.Add:
		return m.startAdd()
	case m.cfg.Keys.Toggle:
		if len(m.tasks) == 0 {
			return m, nil
		}
		task := m.tasks[m.cursor]
		done, err := m.store.Toggle(task.ID)
		m.refresh()
		if err != nil {
			m.status = statusForErr("toggle", err)
			return m, nil
		}
		m.status = fmt.Sprintf("Marked \"%s\" %s", task.Name, humanDone(done))
	case m.cfg.Keys.Delete:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Name)
	case m.cfg.Keys.Filter:
		m.filter = m.filter.Next()
		m.refresh()
		m.status = "Showing " + m.filter.String()
	case m.cfg.Keys.Sort:
		m.sort = m.sort.Next()
		m.refresh()
		m.status = "Sorted by " + m.sort.String()
	case m.cfg.Keys.Detail:
		if len(m.tasks) == 0 {
			m.status = "No tasks"
			return m, nil
		}
		m.status = describe(m.tasks[m.cursor])
	case m.cfg.Keys.Calendar:
		return m.openCalendar()
	case m.cfg.Keys.Categories:
		m.mode = modeCategories
		m.catCursor = clampCursor(m.catCursor, len(m.store.Categories()))
		m.status = fmt.Sprintf("'%s' add • '%s' delete • '%s' back", m.cfg.Keys.Add, m.cfg.Keys.Delete, m.cfg.Keys.Back)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		if err := m.store.Delete(m.pendingDel.ID); err != nil {
			m.status = statusForErr("delete", err)
		} else {
			m.status = "Deleted task"
		}
		m.confirmDel = false
		m.pendingDel = nil
		m.refresh()
		return m, nil
	default:
		return m, nil
	}
}

// refresh recomputes the visible list from the store and keeps the cursor in
// range.
func (m *Model) refresh() {
	tasks, err := query.Run(m.store.List(), m.filter, m.sort)
	if err != nil {
		m.logger.Error("query failed", "err", err)
		m.status = fmt.Sprintf("query failed: %v", err)
		return
	}
	m.tasks = tasks
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("To-Do List & Planner"))
	b.WriteString("\n\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(m.renderForm())
	case modeCalendar:
		b.WriteString(m.renderCalendar())
	case modeDay:
		b.WriteString(m.renderDay())
	case modePick:
		b.WriteString(m.renderPicker())
	case modeCategories, modeCategoryAdd:
		b.WriteString(m.renderCategories())
	default:
		b.WriteString(headerStyle.Render(fmt.Sprintf("Tasks (%s, by %s)", m.filter, m.sort)))
		b.WriteString("\n")
		if len(m.tasks) == 0 {
			b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
		} else {
			b.WriteString(m.renderTaskList())
		}
	}

	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.renderHelp()))

	return b.String()
}

func (m Model) renderHelp() string {
	k := m.cfg.Keys
	switch m.mode {
	case modeAdd:
		return "tab/shift+tab move • enter next/save • esc cancel"
	case modeCalendar:
		return fmt.Sprintf("h/l day • j/k week • %s/%s month • %s/%s year • %s pick month • %s pick year • %s day detail • %s back",
			k.PrevMonth, k.NextMonth, k.PrevYear, k.NextYear, k.PickMonth, k.PickYear, k.Detail, k.Back)
	case modePick:
		return fmt.Sprintf("%s/%s move • %s select • %s back", k.Up, k.Down, k.Confirm, k.Back)
	case modeDay:
		return fmt.Sprintf("%s/%s move • %s toggle • %s back", k.Up, k.Down, toggleLabel(k.Toggle), k.Back)
	case modeCategories, modeCategoryAdd:
		return fmt.Sprintf("%s/%s move • %s add • %s delete • %s back", k.Up, k.Down, k.Add, k.Delete, k.Back)
	}
	return fmt.Sprintf("%s/%s move • %s add • %s detail • %s toggle • %s delete • %s filter • %s sort • %s calendar • %s categories • %s quit",
		k.Up, k.Down, k.Add, k.Detail, toggleLabel(k.Toggle), k.Delete, k.Filter, k.Sort, k.Calendar, k.Categories, k.Quit)
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.tasks {
		b.WriteString(renderTaskLine(t, m.cursor == i))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTaskLine(t planner.Task, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	checkbox := "[ ]"
	name := t.Name
	if t.Done {
		checkbox = "[x]"
		name = doneStyle.Render(name)
	}
	line := fmt.Sprintf("%s %s %s", cursor, checkbox, name)
	meta := fmt.Sprintf("  Category: %s, Time: %s", emptyPlaceholder(t.Category), emptyPlaceholder(t.Time))
	if selected {
		line = selectedStyle.Render(line)
	}
	return line + metaStyle.Render(meta)
}

func describe(t planner.Task) string {
	info := fmt.Sprintf("%s • %s • %s %s", t.Name, humanDone(t.Done), emptyPlaceholder(t.Date), emptyPlaceholder(t.Time))
	if t.Category != "" {
		info += " • category:" + t.Category
	}
	if strings.TrimSpace(t.Location) != "" {
		info += " • location:" + t.Location
	}
	return info
}

func statusForErr(action string, err error) string {
	if errors.Is(err, planner.ErrNotFound) {
		return fmt.Sprintf("%s: %v (list was stale, refreshed)", action, err)
	}
	return fmt.Sprintf("%s failed: %v", action, err)
}

func toggleLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
