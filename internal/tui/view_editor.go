package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/carousel/internal/pipeline"
)

const logo = `
 ┏━╸┏━┓┏━┓┏━┓╻ ╻┏━┓┏━╸╻
 ┃  ┣━┫┣┳┛┃ ┃┃ ┃┗━┓┣╸ ┃
 ┗━╸╹ ╹╹┗╸┗━┛┗━┛┗━┛┗━╸┗━╸
`

func (a *App) renderEditor() string {
	var b strings.Builder
	s := a.state

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		styleLogo.Render(strings.Trim(logo, "\n")),
		styleSubtitle.Render("   story → slides"),
	)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	// Story
	storyBorder := colorMuted
	if s.editorFocus == focusStory {
		storyBorder = colorPrimary
	}
	storyBox := styleBox.Copy().
		BorderForeground(storyBorder).
		Render(s.story.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, storyBox))
	b.WriteString("\n")

	// Controls row: budget, auto-structure switch, scheme
	budgetBorder := colorMuted
	if s.editorFocus == focusMaxChars {
		budgetBorder = colorPrimary
	}
	budget := styleBox.Copy().
		BorderForeground(budgetBorder).
		Render("Max chars/slide " + s.maxCharsInput.View())

	auto := "[ ] Auto-structure"
	if s.autoStructure {
		auto = styleOK.Render("[x] Auto-structure")
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Center,
		budget,
		"   ",
		auto,
		"   ",
		styleSubtitle.Render("scheme: "+s.scheme),
	)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, controls))
	b.WriteString("\n\n")

	// Counter
	story := s.story.Value()
	words := len(strings.Fields(story))
	counter := fmt.Sprintf("%d chars  |  %d words  |  %d slides",
		pipeline.CharCount(story), words, slideCount(story, a.editorBudget()))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(counter)))
	b.WriteString("\n")
	if s.source != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(s.source)))
		b.WriteString("\n")
	}

	if s.status != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(s.status)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	status := styleStatusBar.Render("[ctrl+g] Regenerate  [ctrl+t] Auto  [tab] Field  [ctrl+s] Settings  [f1] Help  [esc] Deck")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}

// editorBudget is the packing budget implied by the current fields
func (a *App) editorBudget() int {
	n, err := parseMaxChars(strings.TrimSpace(a.state.maxCharsInput.Value()), a.state.config.MaxChars)
	if err != nil || n <= 0 {
		return 0
	}
	return pipeline.Options{MaxChars: n, AutoStructure: a.state.autoStructure}.Budget()
}

func (a *App) centerVertically(content string) string {
	lines := strings.Count(content, "\n") + 1
	padding := (a.height - lines) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat("\n", padding) + content
}
