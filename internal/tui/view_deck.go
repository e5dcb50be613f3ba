package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/carousel/internal/writer"
)

// refreshDeck re-renders the current card into the deck viewport
func (a *App) refreshDeck() {
	s := a.state
	if len(s.slides) == 0 {
		s.deckView.SetContent(a.renderEmptyDeck())
		return
	}
	if s.current >= len(s.slides) {
		s.current = len(s.slides) - 1
	}

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(s.deckView.Width, lipgloss.Center, a.renderCard(s.current)))
	b.WriteString("\n")

	slide := s.slides[s.current]
	meter := budgetMeter(slide.Text, s.stats.MaxChars)
	b.WriteString(lipgloss.PlaceHorizontal(s.deckView.Width, lipgloss.Center, meter))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(s.deckView.Width, lipgloss.Center, a.renderOutline()))

	s.deckView.SetContent(b.String())
}

func (a *App) renderDeck() string {
	var b strings.Builder
	s := a.state

	title := s.storyTitle
	if title == "" {
		title = "Carousel"
	}
	mode := "chunked"
	if s.resolved != nil {
		mode = s.resolved.Options.Mode().String()
	}
	header := styleTitle.Render(title) + styleSubtitle.Render(fmt.Sprintf("  %s · %s · %s", mode, s.scheme, s.config.Ratio))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n")

	b.WriteString(s.deckView.View())
	b.WriteString("\n")

	var statusLine string
	if s.stats != nil {
		statusLine = s.stats.String()
	}
	if s.status != "" {
		statusLine += "  |  " + s.status
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(truncate(statusLine, max(10, a.width-2)))))
	b.WriteString("\n")

	keysLine := styleStatusBar.Render("[←/→] Slide  [enter] Edit  [a] Add  [d] Remove  [x] Export  [ctrl+g] Regenerate  [e] Story  [s] Settings  [c] Schemes  [?] Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, keysLine))

	return b.String()
}

func (a *App) renderEmptyDeck() string {
	msg := styleBox.Copy().
		Width(min(60, max(20, a.width-4))).
		Foreground(colorMuted).
		Render("No slides yet.\n\nPaste a story and press ctrl+g to create slides.")
	return lipgloss.PlaceHorizontal(a.state.deckView.Width, lipgloss.Center, msg)
}

// cardSize returns the card's outer width and its text rows. Terminal cells
// are about twice as tall as wide, so rows are halved.
func (a *App) cardSize() (int, int) {
	width := min(56, a.width-8)
	if width < 24 {
		width = 24
	}
	rows := width / 2
	if a.state.config.Ratio == "4:5" {
		rows = width * 5 / 4 / 2
	}
	return width, rows
}

func (a *App) renderCard(i int) string {
	s := a.state
	cfg := s.config
	slide := s.slides[i]

	width, rows := a.cardSize()
	inner := width - 4

	bg := lipgloss.Color(cfg.Brand.Primary)
	fg := lipgloss.Color(cfg.Brand.TextOnImage)
	base := lipgloss.NewStyle().Background(bg).Foreground(fg)

	// Top bar: counter left, brand tag right
	counter := base.Copy().Bold(true).Render(fmt.Sprintf("%d/%d", i+1, len(s.slides)))
	brand := base.Copy().Bold(true).Foreground(lipgloss.Color(cfg.Brand.Accent)).
		Render(strings.ToUpper(cfg.Brand.Name))
	gap := inner - lipgloss.Width(counter) - lipgloss.Width(brand)
	if gap < 1 {
		gap = 1
	}
	top := counter + base.Render(strings.Repeat(" ", gap)) + brand

	titleText := slide.Title
	if titleText == "" {
		titleText = "Untitled"
	}
	title := base.Copy().Bold(true).Width(inner).Render(titleText)
	body := base.Copy().Width(inner).Render(slide.Text)
	footer := base.Copy().Width(inner).Align(lipgloss.Right).
		Foreground(colorMuted).Render(writer.Footer)

	content := lipgloss.JoinVertical(lipgloss.Left, title, base.Render(""), body, base.Render(""), footer)
	bottom := base.Copy().
		Width(inner).
		Height(max(rows-1, lipgloss.Height(content))).
		AlignVertical(lipgloss.Bottom).
		Render(content)

	border := lipgloss.Color(cfg.Brand.Accent)
	if s.stats != nil && s.stats.IsOver(slide.ID) {
		border = colorWarning
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(bg).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, top, bottom))
}

// renderOutline lists every slide title, highlighting the current one
func (a *App) renderOutline() string {
	s := a.state
	var parts []string
	for i, slide := range s.slides {
		label := fmt.Sprintf("%d %s", slide.ID, truncate(slide.Title, 14))
		switch {
		case i == s.current:
			label = styleSelected.Render("[" + label + "]")
		case s.stats != nil && s.stats.IsOver(slide.ID):
			label = styleOver.Render(label + "!")
		default:
			label = styleSubtitle.Render(label)
		}
		parts = append(parts, label)
	}
	return lipgloss.NewStyle().
		Width(max(20, s.deckView.Width-4)).
		Align(lipgloss.Center).
		Render(strings.Join(parts, styleSubtitle.Render(" · ")))
}
