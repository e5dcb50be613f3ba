package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/carousel/internal/config"
)

func (a *App) renderSetup() string {
	switch a.state.setupStep {
	case 0:
		return a.renderRatioSelection()
	case 1:
		return a.renderBrandEntry()
	default:
		return ""
	}
}

func (a *App) renderRatioSelection() string {
	var b strings.Builder

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	title := lipgloss.NewStyle().
		Foreground(colorWhite).
		Bold(true).
		Render("Welcome! Choose your card format:")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	var lines []string
	for i, r := range config.Ratios {
		if i == a.state.selectedRatio {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(colorSecondary).
				Bold(true).
				Render(fmt.Sprintf("> [x] %-10s %s", r.Name, r.Description)))
		} else {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(colorMuted).
				Render(fmt.Sprintf("  [ ] %-10s %s", r.Name, r.Description)))
		}
	}

	box := styleBox.Copy().
		Width(56).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[j/k] Navigate  [Enter] Select  [Esc] Quit")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderBrandEntry() string {
	var b strings.Builder

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	title := lipgloss.NewStyle().
		Foreground(colorWhite).
		Bold(true).
		Render("Brand tag shown on every card:")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	inputBox := styleBox.Copy().
		Width(40).
		BorderForeground(colorPrimary).
		Render(a.state.brandInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	b.WriteString("\n\n")

	hint := styleSubtitle.Render("Leave empty to keep " + a.state.config.Brand.Name)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, hint))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Enter] Save  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
