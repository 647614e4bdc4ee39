package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// formModel wraps a huh form in Bubble Tea so esc and q abort cleanly
type formModel struct {
	form    *huh.Form
	aborted bool
}

func (m formModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, tea.Quit
	}

	return m, cmd
}

func (m formModel) View() string {
	if m.form.State == huh.StateCompleted {
		return ""
	}
	return m.form.View()
}

// runForm runs a single-group form and reports whether it was completed
func runForm(fields ...huh.Field) (bool, error) {
	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(customTheme()).
		WithShowHelp(false)

	final, err := tea.NewProgram(formModel{form: form}).Run()
	if err != nil {
		return false, err
	}
	return !final.(formModel).aborted, nil
}

// customTheme returns a huh theme matching our style palette
func customTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(ColorText)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)

	return t
}
