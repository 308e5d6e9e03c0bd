package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used by the view. Rendering code never builds
// styles inline so the palette stays in one place.
type Theme struct {
	Title     lipgloss.Style
	FilterTag lipgloss.Style

	Cursor    lipgloss.Style
	Checkbox  lipgloss.Style
	CheckDone lipgloss.Style
	IDTag     lipgloss.Style
	TaskText  lipgloss.Style
	TaskDone  lipgloss.Style
	Details   lipgloss.Style

	Overdue lipgloss.Style
	DueSoon lipgloss.Style
	DueFar  lipgloss.Style

	ModeBadge lipgloss.Style
	StatusBar lipgloss.Style
	StatusErr lipgloss.Style
	InputBox  lipgloss.Style
	HelpBox   lipgloss.Style
	HelpKey   lipgloss.Style

	priorities [6]lipgloss.Style
}

// Priority returns the style for a priority level 1-5. Out-of-range values
// get the muted style.
func (t Theme) Priority(p int) lipgloss.Style {
	if p < 1 || p > 5 {
		return t.IDTag
	}
	return t.priorities[p]
}

// DefaultTheme is a dark palette.
func DefaultTheme() Theme {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	t := Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")),
		FilterTag: lipgloss.NewStyle().Foreground(lipgloss.Color("147")),
		Cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Checkbox:  muted,
		CheckDone: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		IDTag:     muted,
		TaskText:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		TaskDone:  lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243")),
		Details:   lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("246")),
		Overdue:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		DueSoon:   lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		DueFar:    muted,
		ModeBadge: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("57")).Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		StatusErr: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		InputBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("135")).Padding(0, 1),
		HelpBox:   lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("135")).Padding(1, 2),
		HelpKey:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("215")),
	}
	t.priorities = [6]lipgloss.Style{
		muted,
		lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // 1 low
		lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // 2
		lipgloss.NewStyle().Foreground(lipgloss.Color("221")), // 3
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // 4
		lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // 5 critical
	}
	return t
}
