package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sant0-9/carousel/internal/config"
	"github.com/sant0-9/carousel/internal/logger"
	"github.com/sant0-9/carousel/internal/pipeline"
	"github.com/sant0-9/carousel/internal/scheme"
	"github.com/sant0-9/carousel/internal/service"
)

// Editor focus targets
const (
	focusStory = iota
	focusMaxChars
)

// Slide edit focus targets
const (
	focusSlideTitle = iota
	focusSlideText
)

type state struct {
	// Config
	config     *config.Config
	needsSetup bool
	svc        *service.Service
	schemes    *scheme.Index
	log        *logger.Logger

	// Setup wizard state
	setupStep     int
	selectedRatio int
	brandInput    textinput.Model

	// Story editor
	story         textarea.Model
	maxCharsInput textinput.Model
	editorFocus   int
	storyTitle    string
	source        string
	autoStructure bool
	scheme        string

	// Deck
	slides   []pipeline.Slide
	stats    *pipeline.DeckStats
	resolved *service.Resolved
	current  int
	deckView viewport.Model

	// Slide editing
	slideTitle textinput.Model
	slideText  textarea.Model
	editFocus  int

	// Settings and schemes
	settingsSelected int
	editingBrand     bool
	schemeSelected   int

	// Export
	exportDir string

	// Status
	status   string
	err      error
	errFrom  view
	dirtyCfg bool
}

func newState(cfg *config.Config) *state {
	story := textarea.New()
	story.Placeholder = "Paste your story..."
	story.ShowLineNumbers = false
	story.CharLimit = 0
	story.SetWidth(70)
	story.SetHeight(10)

	maxChars := textinput.New()
	maxChars.Placeholder = strconv.Itoa(cfg.MaxChars)
	maxChars.CharLimit = 5
	maxChars.Width = 8
	maxChars.SetValue(strconv.Itoa(cfg.MaxChars))

	brand := textinput.New()
	brand.Placeholder = cfg.Brand.Name
	brand.CharLimit = 24
	brand.Width = 30

	title := textinput.New()
	title.Placeholder = "Slide title"
	title.CharLimit = 80
	title.Width = 50

	text := textarea.New()
	text.Placeholder = "Slide text..."
	text.ShowLineNumbers = false
	text.CharLimit = 0
	text.SetWidth(60)
	text.SetHeight(6)

	return &state{
		config:        cfg,
		story:         story,
		maxCharsInput: maxChars,
		brandInput:    brand,
		slideTitle:    title,
		slideText:     text,
		autoStructure: cfg.AutoStructure,
		scheme:        cfg.Scheme,
		selectedRatio: config.RatioIndex(cfg.Ratio),
		deckView:      viewport.New(60, 20),
	}
}
