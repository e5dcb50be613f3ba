package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sant0-9/carousel/internal/config"
	"github.com/sant0-9/carousel/internal/logger"
	"github.com/sant0-9/carousel/internal/pipeline"
	"github.com/sant0-9/carousel/internal/scheme"
	"github.com/sant0-9/carousel/internal/service"
	"github.com/sant0-9/carousel/internal/writer"
)

type view int

const (
	viewSetup view = iota
	viewEditor
	viewDeck
	viewSlide
	viewSchemes
	viewSettings
	viewHelp
	viewError
)

// Options configures the editor
type Options struct {
	Config     *config.Config
	Schemes    *scheme.Index
	Story      string // Initial story; empty means the sample
	StoryTitle string
	ExportDir  string // Where x writes the markdown export; empty means cwd
	NeedsSetup bool   // Run the first-launch wizard
	Source     string // One-line description of the loaded file
	Log        *logger.Logger

	// Command-line overrides for this session only. Config.Save never sees
	// them.
	MaxChars      *int
	AutoStructure *bool
	Scheme        string
}

type App struct {
	width    int
	height   int
	view     view
	prevView view
	state    *state
	quitting bool
}

func NewApp(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	s := newState(cfg)
	s.needsSetup = opts.NeedsSetup
	s.schemes = opts.Schemes
	s.svc = service.New(cfg, opts.Schemes)
	if s.schemes == nil {
		s.schemes = s.svc.Schemes()
	}
	s.exportDir = opts.ExportDir
	s.storyTitle = opts.StoryTitle
	s.source = opts.Source
	if opts.MaxChars != nil {
		s.maxCharsInput.SetValue(strconv.Itoa(*opts.MaxChars))
	}
	if opts.AutoStructure != nil {
		s.autoStructure = *opts.AutoStructure
	}
	if opts.Scheme != "" {
		s.scheme = opts.Scheme
	}
	s.log = opts.Log
	if s.log == nil {
		s.log = logger.Nop()
	}

	story := opts.Story
	if strings.TrimSpace(story) == "" {
		story = pipeline.SampleStory
	}
	s.story.SetValue(story)

	return &App{
		view:  viewEditor,
		state: s,
	}
}

func (a *App) Init() tea.Cmd {
	if a.state.needsSetup {
		a.view = viewSetup
		return tea.Batch(tea.WindowSize(), textinput.Blink)
	}

	a.state.story.Focus()
	return tea.Batch(
		tea.WindowSize(),
		textarea.Blink,
		a.generate(false),
	)
}

type deckMsg struct {
	slides   []pipeline.Slide
	resolved *service.Resolved
	err      error
	show     bool
}

type exportedMsg struct {
	path string
	err  error
}

type configSavedMsg struct{ err error }
type setupCompleteMsg struct{}
type setupErrorMsg struct{ error }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, handled := a.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if handled {
			a.refreshDeck()
			return a, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()

	case deckMsg:
		if msg.err != nil {
			a.showError(msg.err)
			return a, nil
		}
		a.state.resolved = msg.resolved
		a.setSlides(msg.slides)
		a.state.current = 0
		a.state.status = fmt.Sprintf("Generated %d slides (%s)", len(msg.slides), msg.resolved.Options.Mode())
		a.state.log.Debug("deck generated",
			"slides", len(msg.slides),
			"mode", msg.resolved.Options.Mode().String(),
			"max_chars", msg.resolved.Options.MaxChars,
		)
		if msg.show {
			a.view = viewDeck
			a.state.story.Blur()
			a.state.maxCharsInput.Blur()
		}
		a.refreshDeck()
		return a, nil

	case exportedMsg:
		if msg.err != nil {
			a.showError(msg.err)
			return a, nil
		}
		a.state.status = "Exported " + msg.path
		a.state.log.Info("deck exported", "path", msg.path, "slides", len(a.state.slides))
		return a, nil

	case configSavedMsg:
		if msg.err != nil {
			a.showError(msg.err)
			return a, nil
		}
		a.state.dirtyCfg = false
		return a, nil

	case setupCompleteMsg:
		a.state.needsSetup = false
		a.view = viewEditor
		a.state.story.Focus()
		return a, tea.Batch(textarea.Blink, a.generate(false))

	case setupErrorMsg:
		a.showError(msg.error)
		return a, nil
	}

	// Update text inputs based on view
	switch a.view {
	case viewSetup:
		if a.state.setupStep == 1 {
			var cmd tea.Cmd
			a.state.brandInput, cmd = a.state.brandInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	case viewEditor:
		var cmd tea.Cmd
		if a.state.editorFocus == focusStory {
			a.state.story, cmd = a.state.story.Update(msg)
		} else {
			a.state.maxCharsInput, cmd = a.state.maxCharsInput.Update(msg)
		}
		cmds = append(cmds, cmd)
	case viewSlide:
		var cmd tea.Cmd
		if a.state.editFocus == focusSlideTitle {
			a.state.slideTitle, cmd = a.state.slideTitle.Update(msg)
		} else {
			a.state.slideText, cmd = a.state.slideText.Update(msg)
		}
		cmds = append(cmds, cmd)
	case viewSettings:
		if a.state.editingBrand {
			var cmd tea.Cmd
			a.state.brandInput, cmd = a.state.brandInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	case viewDeck:
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			var cmd tea.Cmd
			a.state.deckView, cmd = a.state.deckView.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// handleKey reports whether the key was consumed
func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, keys.Quit) {
		a.quitting = true
		return tea.Quit, true
	}

	switch a.view {
	case viewSetup:
		return a.handleSetupKey(msg)
	case viewEditor:
		return a.handleEditorKey(msg)
	case viewDeck:
		return a.handleDeckKey(msg)
	case viewSlide:
		return a.handleSlideKey(msg)
	case viewSettings:
		return a.handleSettingsKey(msg)
	case viewSchemes:
		return a.handleSchemesKey(msg)
	case viewHelp:
		if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Help) {
			a.view = a.prevView
			return nil, true
		}
		return nil, true
	case viewError:
		if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Enter) {
			a.state.err = nil
			a.view = a.state.errFrom
			return a.focusView(), true
		}
		return nil, true
	}
	return nil, false
}

func (a *App) handleEditorKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Regenerate):
		return a.generate(true), true
	case key.Matches(msg, keys.ToggleAuto):
		a.toggleAuto()
		return nil, true
	case key.Matches(msg, keys.Tab):
		if a.state.editorFocus == focusStory {
			a.state.editorFocus = focusMaxChars
			a.state.story.Blur()
			return a.state.maxCharsInput.Focus(), true
		}
		a.state.editorFocus = focusStory
		a.state.maxCharsInput.Blur()
		return a.state.story.Focus(), true
	case key.Matches(msg, keys.Back):
		if len(a.state.slides) > 0 {
			a.state.story.Blur()
			a.state.maxCharsInput.Blur()
			a.view = viewDeck
			return nil, true
		}
		a.quitting = true
		return tea.Quit, true
	case msg.String() == "f1":
		a.open(viewHelp)
		return nil, true
	case msg.String() == "ctrl+s":
		a.open(viewSettings)
		return nil, true
	}
	return nil, false
}

func (a *App) handleDeckKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state
	switch {
	case key.Matches(msg, keys.Left):
		if s.current > 0 {
			s.current--
			s.deckView.GotoTop()
		}
	case key.Matches(msg, keys.Right):
		if s.current < len(s.slides)-1 {
			s.current++
			s.deckView.GotoTop()
		}
	case key.Matches(msg, keys.Add):
		a.setSlides(pipeline.AddSlide(s.slides))
		s.current = len(s.slides) - 1
		s.status = fmt.Sprintf("Added slide %d", len(s.slides))
	case key.Matches(msg, keys.Remove):
		if len(s.slides) == 0 {
			return nil, true
		}
		id := s.slides[s.current].ID
		a.setSlides(pipeline.RemoveSlide(s.slides, id))
		if s.current >= len(s.slides) && s.current > 0 {
			s.current--
		}
		s.status = fmt.Sprintf("Removed slide %d", id)
	case key.Matches(msg, keys.Enter):
		if len(s.slides) == 0 {
			return nil, true
		}
		return a.editSlide(s.current), true
	case key.Matches(msg, keys.Export):
		return a.exportMarkdown(), true
	case key.Matches(msg, keys.Regenerate):
		return a.generate(true), true
	case key.Matches(msg, keys.ToggleAuto):
		a.toggleAuto()
	case key.Matches(msg, keys.Editor), key.Matches(msg, keys.Tab), key.Matches(msg, keys.Back):
		a.view = viewEditor
		return a.focusView(), true
	case key.Matches(msg, keys.Settings):
		a.open(viewSettings)
	case key.Matches(msg, keys.Schemes):
		a.open(viewSchemes)
		s.schemeSelected = indexOf(s.schemes.List(), s.scheme)
	case key.Matches(msg, keys.Help):
		a.open(viewHelp)
	case msg.String() == "q":
		a.quitting = true
		return tea.Quit, true
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down), msg.String() == "pgup", msg.String() == "pgdown":
		var cmd tea.Cmd
		s.deckView, cmd = s.deckView.Update(msg)
		return cmd, true
	}
	return nil, true
}

func (a *App) handleSlideKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state
	switch {
	case key.Matches(msg, keys.Save):
		slides, err := pipeline.UpdateSlide(s.slides, s.current, strings.TrimSpace(s.slideTitle.Value()), strings.TrimSpace(s.slideText.Value()))
		if err != nil {
			a.showError(err)
			return nil, true
		}
		a.setSlides(slides)
		s.status = fmt.Sprintf("Saved slide %d", s.current+1)
		s.slideTitle.Blur()
		s.slideText.Blur()
		a.view = viewDeck
		return nil, true
	case key.Matches(msg, keys.Back):
		s.slideTitle.Blur()
		s.slideText.Blur()
		a.view = viewDeck
		return nil, true
	case key.Matches(msg, keys.Tab):
		if s.editFocus == focusSlideTitle {
			s.editFocus = focusSlideText
			s.slideTitle.Blur()
			return s.slideText.Focus(), true
		}
		s.editFocus = focusSlideTitle
		s.slideText.Blur()
		return s.slideTitle.Focus(), true
	}
	return nil, false
}

func (a *App) handleSetupKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state
	switch s.setupStep {
	case 0: // Ratio selection
		switch {
		case key.Matches(msg, keys.Up):
			if s.selectedRatio > 0 {
				s.selectedRatio--
			}
		case key.Matches(msg, keys.Down):
			if s.selectedRatio < len(config.Ratios)-1 {
				s.selectedRatio++
			}
		case key.Matches(msg, keys.Enter):
			s.config.Ratio = config.Ratios[s.selectedRatio].ID
			s.setupStep = 1
			s.brandInput.SetValue(s.config.Brand.Name)
			return s.brandInput.Focus(), true
		case key.Matches(msg, keys.Back):
			a.quitting = true
			return tea.Quit, true
		}
		return nil, true

	case 1: // Brand tag entry
		switch {
		case key.Matches(msg, keys.Enter):
			if name := strings.TrimSpace(s.brandInput.Value()); name != "" {
				s.config.Brand.Name = name
			}
			s.brandInput.Blur()
			return a.finishSetup(), true
		case key.Matches(msg, keys.Back):
			s.setupStep = 0
			s.brandInput.Blur()
			return nil, true
		}
	}
	return nil, false
}

func (a *App) finishSetup() tea.Cmd {
	cfg := a.state.config
	return func() tea.Msg {
		if err := cfg.Save(); err != nil {
			return setupErrorMsg{err}
		}
		return setupCompleteMsg{}
	}
}

// generate runs the pipeline on the current story. show switches to the deck.
func (a *App) generate(show bool) tea.Cmd {
	s := a.state
	story := s.story.Value()
	auto := s.autoStructure
	raw := strings.TrimSpace(s.maxCharsInput.Value())
	svc := s.svc
	schemeName := s.scheme

	return func() tea.Msg {
		maxChars, err := parseMaxChars(raw, svc.Config().MaxChars)
		if err != nil {
			return deckMsg{err: err}
		}

		resolved, err := svc.Resolve(service.Request{
			Story:         story,
			MaxChars:      &maxChars,
			AutoStructure: &auto,
			Scheme:        schemeName,
		})
		if err != nil {
			return deckMsg{err: err}
		}

		slides, err := pipeline.Generate(story, resolved.Options)
		return deckMsg{slides: slides, resolved: resolved, err: err, show: show}
	}
}

// parseMaxChars reads the budget field. Empty means fallback.
func parseMaxChars(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", pipeline.ErrInvalidMaxChars, raw)
	}
	return n, nil
}

func (a *App) exportMarkdown() tea.Cmd {
	s := a.state
	deck := s.svc.Deck(s.storyTitle, s.slides, s.resolved)
	dir := s.exportDir

	return func() tea.Msg {
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return exportedMsg{err: err}
			}
			dir = wd
		}
		path := filepath.Join(dir, writer.FileName(writer.FormatMarkdown))

		if err := writeExport(path, deck); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: path}
	}
}

// writeExport writes deck as markdown to path
func writeExport(path string, deck *writer.Deck) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	return writeAndClose(f, deck)
}

// writeAndClose renders deck into w and closes it. Close errors are returned.
func writeAndClose(w io.WriteCloser, deck *writer.Deck) error {
	if err := writer.NewWriter(writer.FormatMarkdown).Write(w, deck); err != nil {
		_ = w.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	return nil
}

func (a *App) saveConfig() tea.Cmd {
	cfg := a.state.config
	return func() tea.Msg {
		return configSavedMsg{err: cfg.Save()}
	}
}

func (a *App) toggleAuto() {
	a.state.autoStructure = !a.state.autoStructure
	mode := "off"
	if a.state.autoStructure {
		mode = "on"
	}
	a.state.status = fmt.Sprintf("Auto-structure %s, ctrl+g to regenerate", mode)
}

func (a *App) editSlide(i int) tea.Cmd {
	s := a.state
	s.current = i
	s.slideTitle.SetValue(s.slides[i].Title)
	s.slideText.SetValue(s.slides[i].Text)
	s.editFocus = focusSlideText
	s.slideTitle.Blur()
	a.view = viewSlide
	return s.slideText.Focus()
}

func (a *App) setSlides(slides []pipeline.Slide) {
	a.state.slides = slides
	maxChars := a.state.config.MaxChars
	if a.state.resolved != nil {
		maxChars = a.state.resolved.Options.MaxChars
	}
	a.state.stats = pipeline.Summarize(slides, maxChars)
}

// open switches to an overlay view, remembering where to return
func (a *App) open(v view) {
	if a.view != v {
		a.prevView = a.view
	}
	a.state.story.Blur()
	a.state.maxCharsInput.Blur()
	a.view = v
}

func (a *App) focusView() tea.Cmd {
	if a.view != viewEditor {
		return nil
	}
	if a.state.editorFocus == focusMaxChars {
		return a.state.maxCharsInput.Focus()
	}
	return a.state.story.Focus()
}

func (a *App) showError(err error) {
	a.state.log.Warn("editor error", "error", err, "view", int(a.view))
	a.state.err = err
	if a.view != viewError {
		a.state.errFrom = a.view
	}
	a.view = viewError
}

func (a *App) resize() {
	w := min(80, a.width-6)
	if w < 20 {
		w = 20
	}
	a.state.story.SetWidth(w)
	a.state.story.SetHeight(max(5, min(14, a.height-16)))
	a.state.slideText.SetWidth(min(70, w))

	a.state.deckView.Width = max(20, a.width-4)
	a.state.deckView.Height = max(5, a.height-6)
	a.refreshDeck()
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewSetup:
		return a.renderSetup()
	case viewEditor:
		return a.renderEditor()
	case viewDeck:
		return a.renderDeck()
	case viewSlide:
		return a.renderSlideEdit()
	case viewSchemes:
		return a.renderSchemes()
	case viewSettings:
		return a.renderSettings()
	case viewHelp:
		return a.renderHelp()
	case viewError:
		return a.renderError()
	default:
		return a.renderEditor()
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}
