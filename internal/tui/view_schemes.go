package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// schemePreviewSlides is how many titles the preview lists
const schemePreviewSlides = 6

func (a *App) handleSchemesKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state
	names := s.schemes.List()

	switch {
	case key.Matches(msg, keys.Up):
		if s.schemeSelected > 0 {
			s.schemeSelected--
		}
	case key.Matches(msg, keys.Down):
		if s.schemeSelected < len(names)-1 {
			s.schemeSelected++
		}
	case key.Matches(msg, keys.Enter):
		if len(names) == 0 {
			return nil, true
		}
		s.scheme = names[s.schemeSelected]
		s.config.Scheme = s.scheme
		s.dirtyCfg = true
		s.status = "Scheme " + s.scheme + ", ctrl+g to regenerate"
		a.view = a.prevView
		return tea.Batch(a.focusView(), a.saveConfig()), true
	case key.Matches(msg, keys.Back):
		a.view = a.prevView
		return a.focusView(), true
	}
	return nil, true
}

func (a *App) renderSchemes() string {
	var b strings.Builder
	s := a.state

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Title schemes")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	schemes := s.schemes.GetAll()
	var lines []string
	for i, sc := range schemes {
		marker := "  "
		if sc.Name == s.scheme {
			marker = "* "
		}
		origin := "built-in"
		if sc.Path != "" {
			origin = "custom"
		}
		line := fmt.Sprintf("%s%-12s %-9s %s", marker, sc.Name, origin, truncate(sc.Description, 40))
		if i == s.schemeSelected {
			lines = append(lines, styleSelected.Render("> "+line))
		} else {
			lines = append(lines, styleSubtitle.Render("  "+line))
		}
	}

	box := styleBox.Copy().
		Width(min(72, a.width-4)).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	if s.schemeSelected < len(schemes) {
		preview := strings.Join(schemes[s.schemeSelected].Titles(schemePreviewSlides), " → ")
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center,
			styleSubtitle.Render(truncate(fmt.Sprintf("%d slides: %s", schemePreviewSlides, preview), max(10, a.width-4)))))
		b.WriteString("\n\n")
	}

	if dir := s.schemes.SchemesDir(); dir != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render("Custom schemes: "+dir)))
		b.WriteString("\n\n")
	}

	instructions := styleStatusBar.Render("[j/k] Navigate  [Enter] Use  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
