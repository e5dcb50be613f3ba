package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	editor := []string{
		"  ctrl+g         Generate slides from the story",
		"  ctrl+t         Toggle auto-structure",
		"  tab            Switch story / max chars",
		"  ctrl+s         Settings",
		"  esc            Back to the deck",
	}
	deck := []string{
		"  ←/→ h/l        Previous / next slide",
		"  enter          Edit slide",
		"  a / d          Add / remove slide",
		"  x              Export markdown",
		"  e              Back to the story",
		"  s / c          Settings / title schemes",
		"  q, ctrl+c      Quit",
	}

	for _, section := range []struct {
		name  string
		lines []string
	}{
		{"Story editor", editor},
		{"Deck", deck},
	} {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(section.name)))
		b.WriteString("\n")
		box := styleBox.Copy().
			Width(54).
			Render(strings.Join(section.lines, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
		b.WriteString("\n\n")
	}

	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
