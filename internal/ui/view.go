package ui

import (
	"fmt"
	"strings"
)

func (m *Model) View() string {
	if m.mode == modeHelp {
		return m.viewHelp()
	}

	var b strings.Builder
	b.WriteString(m.viewTitle())
	b.WriteString("\n\n")
	b.WriteString(m.viewTasks())
	b.WriteString("\n")
	b.WriteString(m.viewInput())
	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	return b.String()
}

func (m *Model) viewTitle() string {
	return fmt.Sprintf(" %s  %s",
		m.theme.Title.Render("godo"),
		m.theme.FilterTag.Render("filter: "+string(m.filter)))
}

func (m *Model) viewTasks() string {
	vis := m.visible()
	if len(vis) == 0 {
		return m.theme.IDTag.Render("  No tasks. Press i to add one.") + "\n"
	}

	now := nowFunc()
	var b strings.Builder
	for i, t := range vis {
		marker := "  "
		if i == m.cursor {
			marker = m.theme.Cursor.Render("> ")
		}

		checkbox := m.theme.Checkbox.Render("[ ]")
		if t.Completed {
			checkbox = m.theme.CheckDone.Render("[x]")
		}

		text := m.theme.TaskText.Render(t.Description)
		if t.Completed {
			text = m.theme.TaskDone.Render(t.Description)
		}

		line := fmt.Sprintf("%s%s %s %s", marker, checkbox,
			m.theme.IDTag.Render(fmt.Sprintf("#%d", t.ID)), text)

		if t.Priority != nil {
			line += " " + m.theme.Priority(*t.Priority).Render(fmt.Sprintf("P%d", *t.Priority))
		}
		if due := t.FormatDue(now); due != "" {
			style := m.theme.DueFar
			if t.IsOverdue(now) {
				style = m.theme.Overdue
			} else if t.IsDueSoon(now) {
				style = m.theme.DueSoon
			}
			line += " " + style.Render("due "+due)
		}

		b.WriteString(line)
		b.WriteByte('\n')
		if m.showDetails && t.Details != "" {
			b.WriteString("      " + m.theme.Details.Render(t.Details) + "\n")
		}
	}
	return b.String()
}

func (m *Model) viewInput() string {
	switch m.mode {
	case modeInsert, modeEdit, modeDetails, modeDue:
		return m.theme.InputBox.Render(m.input.View())
	case modePriority:
		return m.theme.InputBox.Render("priority: 1-5 set, 0 clear, esc cancel")
	}
	return ""
}

func (m *Model) viewStatus() string {
	s := m.list.Summarize()
	counts := m.theme.StatusBar.Render(
		fmt.Sprintf("%d total | %d done | %d pending", s.Total, s.Completed, s.Pending))

	status := m.theme.StatusBar.Render(m.status)
	if m.statusIsErr {
		status = m.theme.StatusErr.Render(m.status)
	}

	return fmt.Sprintf(" %s %s  %s",
		m.theme.ModeBadge.Render(m.mode.String()), counts, status)
}

func (m *Model) viewHelp() string {
	rows := []struct{ key, desc string }{
		{"j/k, up/down", "move selection"},
		{"g / G", "first / last task"},
		{"i", "add task (:N suffix sets priority)"},
		{"enter, space", "complete / reopen task"},
		{"e", "edit description"},
		{"D", "edit details"},
		{"u", "set due date"},
		{"p", "set priority (1-5, 0 clears)"},
		{"d", "delete task"},
		{"f", "cycle filter all > completed > pending"},
		{"1 / 2 / 3", "filter all / completed / pending"},
		{"v", "toggle details display"},
		{"h, ?", "toggle this help"},
		{"q", "save and quit"},
		{"esc", "cancel / close"},
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s  %s\n", m.theme.HelpKey.Render(fmt.Sprintf("%-14s", r.key)), r.desc)
	}
	return m.theme.HelpBox.Render(b.String())
}
