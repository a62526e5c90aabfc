package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions
var (
	// Colors
	primaryColor = lipgloss.Color("#3b82f6")
	successColor = lipgloss.Color("#10b981")
	errorColor   = lipgloss.Color("#ef4444")
	mutedColor   = lipgloss.Color("#94a3b8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff"))

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)

// View renders the inspector
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("graphview inspect"))
	b.WriteString("\n")

	size := m.oracle.Size()
	width, height := m.view.Size()
	transform, _ := m.view.Translater().Attr("transform")
	if transform == "" {
		transform = "-"
	}
	mode := "immediate"
	if m.animate {
		mode = "animated"
	}

	rows := [][2]string{
		{"viewport", fmt.Sprintf("%d × %d", size.Width(), size.Height())},
		{"canvas", fmt.Sprintf("%d × %d", width, height)},
		{"radius", m.radiusText()},
		{"transform", transform},
		{"mode", mode},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(valueStyle.Render(row[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(m.transitionProgress()))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.errorMessage != "" {
		b.WriteString(errorStyle.Render(m.errorMessage))
		b.WriteString("\n")
	} else if m.statusMessage != "" {
		b.WriteString(successStyle.Render(m.statusMessage))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.helpText()))
	return boxStyle.Render(b.String())
}

func (m Model) radiusText() string {
	if !m.rendered {
		return "-"
	}
	return fmt.Sprintf("%g", m.radius)
}

func (m Model) helpText() string {
	bindings := []struct{ key, desc string }{
		{DefaultKeyMap.Render.Help().Key, DefaultKeyMap.Render.Help().Desc},
		{DefaultKeyMap.Animate.Help().Key, DefaultKeyMap.Animate.Help().Desc},
		{"ctrl+←/→", "width"},
		{"ctrl+↑/↓", "height"},
		{DefaultKeyMap.Quit.Help().Key, DefaultKeyMap.Quit.Help().Desc},
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, kb.key+" "+kb.desc)
	}
	return strings.Join(parts, " • ")
}
