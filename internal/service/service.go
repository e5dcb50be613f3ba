// Package service resolves request options against config and turns
// stories into decks. The CLI, the HTTP API and the editor share it.
package service

import (
	"strings"
	"time"

	"github.com/sant0-9/carousel/internal/config"
	"github.com/sant0-9/carousel/internal/pipeline"
	"github.com/sant0-9/carousel/internal/scheme"
	"github.com/sant0-9/carousel/internal/writer"
)

// Request is one generation call. Nil and empty fields fall back to config.
type Request struct {
	Story         string `json:"story"`
	Title         string `json:"title,omitempty"`
	MaxChars      *int   `json:"max_chars,omitempty"`
	AutoStructure *bool  `json:"auto_structure,omitempty"`
	Scheme        string `json:"scheme,omitempty"`
}

// Resolved is a Request with every default filled in
type Resolved struct {
	Options pipeline.Options
	Scheme  *scheme.Scheme
}

type Service struct {
	cfg     *config.Config
	schemes *scheme.Index
	now     func() time.Time
}

// New creates a service. A nil cfg means defaults; a nil index means the
// built-in schemes only.
func New(cfg *config.Config, schemes *scheme.Index) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if schemes == nil {
		schemes, _ = scheme.NewIndex("")
	}
	return &Service{cfg: cfg, schemes: schemes, now: time.Now}
}

func (s *Service) Config() *config.Config {
	return s.cfg
}

func (s *Service) Schemes() *scheme.Index {
	return s.schemes
}

// Resolve fills defaults and looks up the scheme
func (s *Service) Resolve(req Request) (*Resolved, error) {
	opts := pipeline.Options{
		MaxChars:      s.cfg.MaxChars,
		AutoStructure: s.cfg.AutoStructure,
	}
	if req.MaxChars != nil {
		opts.MaxChars = *req.MaxChars
	}
	if req.AutoStructure != nil {
		opts.AutoStructure = *req.AutoStructure
	}

	name := strings.TrimSpace(req.Scheme)
	if name == "" {
		name = s.cfg.Scheme
	}
	sch := scheme.Default()
	if name != "" {
		found, err := s.schemes.Lookup(name)
		if err != nil {
			return nil, err
		}
		sch = found
	}
	opts.Scheme = sch

	return &Resolved{Options: opts, Scheme: sch}, nil
}

// Chunk returns the raw chunks at the requested budget
func (s *Service) Chunk(req Request) ([]string, *Resolved, error) {
	r, err := s.Resolve(req)
	if err != nil {
		return nil, nil, err
	}
	chunks, err := pipeline.Chunk(req.Story, r.Options.MaxChars)
	if err != nil {
		return nil, nil, err
	}
	return chunks, r, nil
}

// Structure returns titled parts using the resolved scheme, along with the
// resolution so callers can report the budget and scheme used
func (s *Service) Structure(req Request) ([]pipeline.StructuredSlide, *Resolved, error) {
	r, err := s.Resolve(req)
	if err != nil {
		return nil, nil, err
	}
	slides, err := pipeline.StructureWith(req.Story, r.Options.MaxChars, r.Scheme)
	if err != nil {
		return nil, nil, err
	}
	return slides, r, nil
}

// Build generates a full deck with style and stats
func (s *Service) Build(req Request) (*writer.Deck, error) {
	r, err := s.Resolve(req)
	if err != nil {
		return nil, err
	}

	slides, err := pipeline.Generate(req.Story, r.Options)
	if err != nil {
		return nil, err
	}

	return s.Deck(req.Title, slides, r), nil
}

// Deck wraps already generated or edited slides for export
func (s *Service) Deck(title string, slides []pipeline.Slide, r *Resolved) *writer.Deck {
	deck := &writer.Deck{
		Title:       title,
		GeneratedAt: s.now().UTC(),
		Slides:      slides,
		Style:       writer.StyleFrom(s.cfg),
	}
	if deck.Slides == nil {
		deck.Slides = []pipeline.Slide{}
	}
	if r != nil {
		deck.Mode = r.Options.Mode().String()
		deck.Scheme = r.Scheme.Name
		deck.Stats = pipeline.Summarize(slides, r.Options.MaxChars)
	}
	return deck
}
