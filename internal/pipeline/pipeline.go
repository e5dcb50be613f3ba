package pipeline

import (
	"github.com/sant0-9/carousel/internal/scheme"
)

// Mode describes how a deck was produced
type Mode int

const (
	ModeChunked Mode = iota
	ModeStructured
)

func (m Mode) String() string {
	switch m {
	case ModeChunked:
		return "chunked"
	case ModeStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Slide is a numbered, titled card in a deck
type Slide struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// Options controls Generate
type Options struct {
	MaxChars      int
	AutoStructure bool
	Scheme        *scheme.Scheme // nil means the default arc
}

// Mode reports which path Generate takes for these options
func (o Options) Mode() Mode {
	if o.AutoStructure {
		return ModeStructured
	}
	return ModeChunked
}

// Budget is the per-slide character budget Generate actually packs to
func (o Options) Budget() int {
	if o.AutoStructure && o.MaxChars > 0 {
		return StructuredBudget(o.MaxChars)
	}
	return o.MaxChars
}

// Generate turns a story into a fresh deck. With AutoStructure the slides
// carry arc titles; otherwise every chunk is titled "Slide N" (or the
// scheme's generic title). Slide IDs start at 1.
func Generate(story string, opts Options) ([]Slide, error) {
	s := opts.Scheme
	if s == nil {
		s = scheme.Default()
	}

	var raw []StructuredSlide
	if opts.AutoStructure {
		structured, err := StructureWith(story, opts.MaxChars, s)
		if err != nil {
			return nil, err
		}
		raw = structured
	} else {
		chunks, err := Chunk(story, opts.MaxChars)
		if err != nil {
			return nil, err
		}
		raw = genericSlides(chunks, s)
	}

	slides := make([]Slide, 0, len(raw))
	for i, r := range raw {
		slides = append(slides, Slide{ID: i + 1, Title: r.Title, Text: r.Text})
	}
	return slides, nil
}
