package pipeline

import (
	"fmt"
	"math"

	"github.com/sant0-9/carousel/internal/scheme"
)

// minStructuredBudget is the smallest per-slide budget used when structuring
const minStructuredBudget = 80

// structuredRatio shrinks the budget to leave room for the larger title
const structuredRatio = 0.8

// StructuredSlide is a titled block of text
type StructuredSlide struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// Structure labels the story with the default Hook / Problem / Insight /
// Step N / CTA arc
func Structure(story string, maxChars int) ([]StructuredSlide, error) {
	return StructureWith(story, maxChars, scheme.Default())
}

// StructureWith chunks the story at StructuredBudget(maxChars) and labels
// the parts by position using s. A nil scheme means the default arc.
func StructureWith(story string, maxChars int, s *scheme.Scheme) ([]StructuredSlide, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxChars, maxChars)
	}
	if s == nil {
		s = scheme.Default()
	}

	parts, err := Chunk(story, StructuredBudget(maxChars))
	if err != nil {
		return nil, err
	}

	titles := s.Titles(len(parts))
	slides := make([]StructuredSlide, 0, len(parts))
	for i, title := range titles {
		slides = append(slides, StructuredSlide{Title: title, Text: parts[i]})
	}

	if len(slides) == 0 {
		return genericSlides(parts, s), nil
	}
	return slides, nil
}

// StructuredBudget is max(80, round(maxChars * 0.8)), rounding halves up
func StructuredBudget(maxChars int) int {
	budget := int(math.Floor(float64(maxChars)*structuredRatio + 0.5))
	if budget < minStructuredBudget {
		return minStructuredBudget
	}
	return budget
}

func genericSlides(parts []string, s *scheme.Scheme) []StructuredSlide {
	slides := make([]StructuredSlide, 0, len(parts))
	for i, p := range parts {
		slides = append(slides, StructuredSlide{Title: s.GenericTitle(i), Text: p})
	}
	return slides
}
