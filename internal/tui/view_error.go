package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/carousel/internal/pipeline"
)

func (a *App) renderError() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true).
		Render("Something went wrong")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	errMsg := "Unknown error"
	if a.state.err != nil {
		errMsg = a.state.err.Error()
	}

	errBox := styleBox.Copy().
		Width(min(60, a.width-4)).
		BorderForeground(colorError).
		Render(errMsg)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, errBox))
	b.WriteString("\n\n")

	var suggestions []string
	errLower := strings.ToLower(errMsg)
	switch {
	case errors.Is(a.state.err, pipeline.ErrInvalidMaxChars):
		suggestions = append(suggestions, "Max chars must be a whole number above zero")
		suggestions = append(suggestions, "Leave it empty to use the configured default")
	case strings.Contains(errLower, "permission denied"):
		suggestions = append(suggestions, "Check you can write to the export or config directory")
	case strings.Contains(errLower, "no such file"):
		suggestions = append(suggestions, "Check the path is correct")
	}

	if len(suggestions) > 0 {
		suggBox := styleBox.Copy().
			Width(min(60, a.width-4)).
			BorderForeground(colorMuted).
			Render("Suggestions:\n" + strings.Join(suggestions, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, suggBox))
		b.WriteString("\n\n")
	}

	status := styleStatusBar.Render("[Enter/Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
