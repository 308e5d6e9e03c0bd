// Package ui provides the interactive terminal session.
//
// The session is a modal state machine: every key event is interpreted
// against the current mode, producing a new model state and possibly a
// mutation of the task list. Mutations go through the todo package and are
// persisted immediately; rendering is a pure function of the model.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"godo/internal/config"
	"godo/internal/storage"
	"godo/internal/term"
	"godo/internal/todo"
)

// mode is the current interaction state.
type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeEdit
	modeDetails
	modeDue
	modePriority
	modeHelp
)

func (m mode) String() string {
	switch m {
	case modeInsert:
		return "INSERT"
	case modeEdit:
		return "EDIT"
	case modeDetails:
		return "DETAILS"
	case modeDue:
		return "DUE DATE"
	case modePriority:
		return "PRIORITY"
	case modeHelp:
		return "HELP"
	default:
		return "NORMAL"
	}
}

// Model is the bubbletea model for the session.
type Model struct {
	store *storage.Store
	list  *todo.List

	mode   mode
	filter todo.Filter
	cursor int // index into the visible (filtered) list, -1 when empty

	input  textinput.Model
	editID int // task targeted by edit/details/due modes

	status      string
	statusIsErr bool
	showDetails bool
	cleanExit   bool // quit path ran and its save succeeded

	theme  Theme
	width  int
	height int
}

// New builds a session over an already-loaded list.
func New(store *storage.Store, list *todo.List, cfg *config.Config) *Model {
	filter, err := todo.ParseFilter(cfg.DefaultFilter)
	if err != nil {
		filter = todo.FilterAll
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 60

	m := &Model{
		store:  store,
		list:   list,
		filter: filter,
		input:  ti,
		status: "Press h for help",
		theme:  DefaultTheme(),
		width:  80,
		height: 24,
	}
	m.clampCursor()
	return m
}

// Run loads the list, starts the program, and persists on every exit path.
func Run(ctx context.Context, store *storage.Store, cfg *config.Config) error {
	if !term.IsTerminal(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	list, err := store.Load()
	if err != nil {
		return err
	}

	model := New(store, list, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()

	// A cancelled context or a failed quit-path save skips the in-session
	// persist; save here so those exits still reach the file.
	if !model.cleanExit {
		if err := store.Save(list); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 20 {
			m.input.Width = msg.Width - 10
		}
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeInsert, modeEdit, modeDetails, modeDue:
			return m.updateTextMode(msg)
		case modePriority:
			return m.updatePriorityMode(msg)
		case modeHelp:
			return m.updateHelpMode(msg)
		default:
			return m.updateNormalMode(msg)
		}
	}
	return m, nil
}

// visible returns the tasks shown under the active filter.
func (m *Model) visible() []todo.Task {
	return m.list.Filtered(m.filter)
}

// clampCursor keeps the cursor inside the visible list: [0, len-1], or -1
// when the list is empty. Never wraps.
func (m *Model) clampCursor() {
	n := len(m.visible())
	switch {
	case n == 0:
		m.cursor = -1
	case m.cursor < 0:
		m.cursor = 0
	case m.cursor >= n:
		m.cursor = n - 1
	}
}

// selected returns the task under the cursor, or false if none.
func (m *Model) selected() (todo.Task, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return todo.Task{}, false
	}
	return vis[m.cursor], true
}

// setStatus replaces the status line.
func (m *Model) setStatus(format string, args ...interface{}) {
	m.status = fmt.Sprintf(format, args...)
	m.statusIsErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusIsErr = true
}

// persist saves the list. A failure is reported in the status line and the
// session stays alive; the in-memory change is not considered durable.
func (m *Model) persist() error {
	if err := m.store.Save(m.list); err != nil {
		m.setError(err)
		return err
	}
	return nil
}

// selectID moves the cursor to the task with the given ID if it is visible,
// otherwise clamps.
func (m *Model) selectID(id int) {
	for i, t := range m.visible() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.cleanExit = m.persist() == nil
		return m, tea.Quit

	case "j", "down":
		if m.cursor >= 0 {
			m.cursor++
			m.clampCursor()
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		if m.cursor >= 0 {
			m.cursor = 0
		}
	case "G", "end":
		if n := len(m.visible()); n > 0 {
			m.cursor = n - 1
		}

	case "i":
		m.mode = modeInsert
		m.input.Reset()
		m.input.Placeholder = "description (:1-5 sets priority)"
		m.input.Focus()
		m.setStatus("Enter a description, :N at the end sets priority")

	case "enter", " ":
		m.toggleComplete()

	case "d":
		m.deleteSelected()

	case "e":
		if t, ok := m.selected(); ok {
			m.mode = modeEdit
			m.editID = t.ID
			m.input.Placeholder = ""
			m.input.SetValue(t.Description)
			m.input.CursorEnd()
			m.input.Focus()
			m.setStatus("Editing #%d", t.ID)
		}
	case "D":
		if t, ok := m.selected(); ok {
			m.mode = modeDetails
			m.editID = t.ID
			m.input.Placeholder = "details (empty clears)"
			m.input.SetValue(t.Details)
			m.input.CursorEnd()
			m.input.Focus()
			m.setStatus("Editing details of #%d", t.ID)
		}
	case "u":
		if t, ok := m.selected(); ok {
			m.mode = modeDue
			m.editID = t.ID
			m.input.Placeholder = "today, tomorrow, YYYY-MM-DD, empty clears"
			if t.DueDate != nil {
				m.input.SetValue(t.DueDate.UTC().Format("2006-01-02"))
			} else {
				m.input.SetValue("")
			}
			m.input.CursorEnd()
			m.input.Focus()
			m.setStatus("Set due date of #%d", t.ID)
		}
	case "p":
		if t, ok := m.selected(); ok {
			m.mode = modePriority
			m.editID = t.ID
			m.setStatus("Press 1-5 to set priority, 0 to clear, esc to cancel")
		}

	case "f":
		m.filter = m.filter.Next()
		m.clampCursor()
		m.setStatus("Filter: %s", m.filter)
	case "1":
		m.setFilter(todo.FilterAll)
	case "2":
		m.setFilter(todo.FilterCompleted)
	case "3":
		m.setFilter(todo.FilterPending)

	case "v":
		m.showDetails = !m.showDetails
		if m.showDetails {
			m.setStatus("Showing details")
		} else {
			m.setStatus("Hiding details")
		}

	case "h", "?":
		m.mode = modeHelp
	}
	return m, nil
}

func (m *Model) setFilter(f todo.Filter) {
	m.filter = f
	m.clampCursor()
	m.setStatus("Filter: %s", f)
}

func (m *Model) toggleComplete() {
	t, ok := m.selected()
	if !ok {
		return
	}
	var err error
	if t.Completed {
		err = m.list.Reopen(t.ID)
		m.setStatus("Reopened #%d", t.ID)
	} else {
		err = m.list.Complete(t.ID)
		m.setStatus("Completed #%d", t.ID)
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.persist()
	m.clampCursor()
}

func (m *Model) deleteSelected() {
	t, ok := m.selected()
	if !ok {
		return
	}
	if err := m.list.Delete(t.ID); err != nil {
		m.setError(err)
		return
	}
	m.persist()
	m.clampCursor()
	m.setStatus("Deleted: %s", t.Description)
}

func (m *Model) updateTextMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submitTextMode()
		return m, nil
	case "esc":
		m.input.Reset()
		m.input.Blur()
		m.mode = modeNormal
		m.setStatus("Cancelled")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitTextMode applies the buffer according to the mode. Rejected input
// keeps the mode and the buffer so the user can fix it.
func (m *Model) submitTextMode() {
	value := m.input.Value()
	switch m.mode {
	case modeInsert:
		desc, priority := todo.ParsePrioritySuffix(value)
		t, err := m.list.Add(desc, priority)
		if err != nil {
			m.setError(err)
			return
		}
		m.persist()
		if priority != nil {
			m.setStatus("Added #%d: %s (P%d)", t.ID, t.Description, *priority)
		} else {
			m.setStatus("Added #%d: %s", t.ID, t.Description)
		}
		m.leaveTextMode()
		m.selectID(t.ID)

	case modeEdit:
		if err := m.list.Edit(m.editID, value); err != nil {
			m.setError(err)
			var nf *todo.NotFoundError
			if errors.As(err, &nf) {
				m.leaveTextMode()
			}
			return
		}
		m.persist()
		m.setStatus("Updated #%d", m.editID)
		m.leaveTextMode()

	case modeDetails:
		if err := m.list.SetDetails(m.editID, value); err != nil {
			m.setError(err)
			m.leaveTextMode()
			return
		}
		m.persist()
		m.setStatus("Details updated")
		m.leaveTextMode()

	case modeDue:
		due, err := todo.ParseDueDate(value, nowFunc())
		if err != nil {
			m.setError(err)
			return
		}
		if err := m.list.SetDueDate(m.editID, due); err != nil {
			m.setError(err)
			m.leaveTextMode()
			return
		}
		m.persist()
		if due == nil {
			m.setStatus("Due date cleared")
		} else {
			m.setStatus("Due date set to %s", due.UTC().Format("2006-01-02"))
		}
		m.leaveTextMode()
	}
}

func (m *Model) leaveTextMode() {
	m.input.Reset()
	m.input.Blur()
	m.mode = modeNormal
}

func (m *Model) updatePriorityMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case key == "esc":
		m.mode = modeNormal
		m.setStatus("Priority unchanged")
	case key == "0":
		if err := m.list.SetPriority(m.editID, nil); err != nil {
			m.setError(err)
		} else {
			m.persist()
			m.setStatus("Priority cleared")
		}
		m.mode = modeNormal
	case key >= "1" && key <= "5" && len(key) == 1:
		p := int(key[0] - '0')
		if err := m.list.SetPriority(m.editID, &p); err != nil {
			m.setError(err)
		} else {
			m.persist()
			m.setStatus("Priority set to %d", p)
		}
		m.mode = modeNormal
	default:
		m.setStatus("Press 1-5 to set priority, 0 to clear, esc to cancel")
	}
	return m, nil
}

func (m *Model) updateHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "?", "esc", "q", "enter":
		m.mode = modeNormal
	}
	return m, nil
}

// nowFunc is stubbed in tests.
var nowFunc = time.Now
