package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderSlideEdit() string {
	var b strings.Builder
	s := a.state

	title := styleLogo.Render(fmt.Sprintf("Edit slide %d/%d", s.current+1, len(s.slides)))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	titleBorder, textBorder := colorMuted, colorPrimary
	if s.editFocus == focusSlideTitle {
		titleBorder, textBorder = colorPrimary, colorMuted
	}

	titleBox := styleBox.Copy().
		Width(min(70, a.width-4)).
		BorderForeground(titleBorder).
		Render(s.slideTitle.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, titleBox))
	b.WriteString("\n")

	textBox := styleBox.Copy().
		BorderForeground(textBorder).
		Render(s.slideText.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, textBox))
	b.WriteString("\n")

	maxChars := s.config.MaxChars
	if s.stats != nil {
		maxChars = s.stats.MaxChars
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, budgetMeter(s.slideText.Value(), maxChars)))
	b.WriteString("\n\n")

	status := styleStatusBar.Render("[tab] Switch field  [ctrl+s] Save  [esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
