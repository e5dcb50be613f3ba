package writer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sant0-9/carousel/internal/config"
	"github.com/sant0-9/carousel/internal/pipeline"
)

// ErrUnknownFormat is returned by ParseFormat for names it does not know
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export encoding
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every export format in menu order
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML}

// Base font sizes in px at 100% scale
const (
	baseTitlePx = 40
	baseBodyPx  = 26
)

// Footer is printed under every card
const Footer = "Save • Share • Follow"

// ParseFormat accepts a format name or its file extension
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Ext is the file extension for the format, without the dot
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "txt"
	}
}

// ContentType is the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// FileName is the default export file name
func FileName(f Format) string {
	return "carousel_slides." + f.Ext()
}

// Style carries what a renderer needs to reproduce the cards
type Style struct {
	Ratio          string  `json:"ratio" yaml:"ratio"`
	Width          int     `json:"width" yaml:"width"`
	Height         int     `json:"height" yaml:"height"`
	Brand          string  `json:"brand" yaml:"brand"`
	Primary        string  `json:"primary" yaml:"primary"`
	Accent         string  `json:"accent" yaml:"accent"`
	TextOnImage    string  `json:"text_on_image" yaml:"text_on_image"`
	FontScale      int     `json:"font_scale" yaml:"font_scale"`
	TitlePx        int     `json:"title_px" yaml:"title_px"`
	BodyPx         int     `json:"body_px" yaml:"body_px"`
	OverlayOpacity int     `json:"overlay_opacity" yaml:"overlay_opacity"`
	OverlayTop     float64 `json:"overlay_top" yaml:"overlay_top"`
	OverlayMid     float64 `json:"overlay_mid" yaml:"overlay_mid"`
	Footer         string  `json:"footer" yaml:"footer"`
}

// StyleFrom derives the card style from config
func StyleFrom(cfg *config.Config) Style {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := Style{
		Ratio:          cfg.Ratio,
		Brand:          cfg.Brand.Name,
		Primary:        cfg.Brand.Primary,
		Accent:         cfg.Brand.Accent,
		TextOnImage:    cfg.Brand.TextOnImage,
		FontScale:      cfg.FontScale,
		TitlePx:        scalePx(baseTitlePx, cfg.FontScale),
		BodyPx:         scalePx(baseBodyPx, cfg.FontScale),
		OverlayOpacity: cfg.OverlayOpacity,
		OverlayTop:     float64(cfg.OverlayOpacity) / 100,
		OverlayMid:     math.Max(0, float64(cfg.OverlayOpacity-25)/100),
		Footer:         Footer,
	}
	if r := config.GetRatio(cfg.Ratio); r != nil {
		s.Width, s.Height = r.Width, r.Height
	}
	return s
}

func scalePx(base, scale int) int {
	return int(math.Round(float64(base) * float64(scale) / 100))
}

// Deck is everything an export contains
type Deck struct {
	Title       string              `json:"title,omitempty" yaml:"title,omitempty"`
	Mode        string              `json:"mode" yaml:"mode"`
	Scheme      string              `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	GeneratedAt time.Time           `json:"generated_at" yaml:"generated_at"`
	Slides      []pipeline.Slide    `json:"slides" yaml:"slides"`
	Style       Style               `json:"style" yaml:"style"`
	Stats       *pipeline.DeckStats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// Writer renders decks in one format
type Writer struct {
	format Format
}

// NewWriter creates a writer for format
func NewWriter(format Format) *Writer {
	return &Writer{format: format}
}

func (w *Writer) Format() Format {
	return w.format
}

// Write renders deck to out
func (w *Writer) Write(out io.Writer, deck *Deck) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(deck)
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(deck); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := io.WriteString(out, markdown(deck))
		return err
	default:
		_, err := io.WriteString(out, text(deck))
		return err
	}
}

// Render is Write into a string
func (w *Writer) Render(deck *Deck) (string, error) {
	var b strings.Builder
	if err := w.Write(&b, deck); err != nil {
		return "", err
	}
	return b.String(), nil
}

func text(deck *Deck) string {
	var b strings.Builder
	total := len(deck.Slides)
	for i, s := range deck.Slides {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%d/%d] %s\n", i+1, total, s.Title)
		if s.Text != "" {
			b.WriteString(s.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func markdown(deck *Deck) string {
	var b strings.Builder

	title := deck.Title
	if title == "" {
		title = "Carousel"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if deck.Style.Brand != "" {
		fmt.Fprintf(&b, "_%s · %s · %d slides_\n\n", deck.Style.Brand, deck.Style.Ratio, len(deck.Slides))
	}

	total := len(deck.Slides)
	for i, s := range deck.Slides {
		fmt.Fprintf(&b, "## %d/%d · %s\n\n", i+1, total, s.Title)
		if s.Text != "" {
			b.WriteString(s.Text)
			b.WriteString("\n\n")
		}
	}
	b.WriteString("---\n\n")
	b.WriteString(Footer)
	b.WriteString("\n")
	return b.String()
}
