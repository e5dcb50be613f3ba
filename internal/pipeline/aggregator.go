package pipeline

import (
	"fmt"
	"strings"
)

// DeckStats summarizes a generated deck
type DeckStats struct {
	Slides     int   `json:"slides" yaml:"slides"`
	Words      int   `json:"words" yaml:"words"`
	Chars      int   `json:"chars" yaml:"chars"`
	Longest    int   `json:"longest" yaml:"longest"`
	MaxChars   int   `json:"max_chars" yaml:"max_chars"`
	OverBudget []int `json:"over_budget,omitempty" yaml:"over_budget,omitempty"` // Slide IDs
}

// Summarize counts words and characters across the deck and flags slides
// whose text exceeds maxChars. A non-positive maxChars disables the check.
func Summarize(slides []Slide, maxChars int) *DeckStats {
	stats := &DeckStats{
		Slides:   len(slides),
		MaxChars: maxChars,
	}

	for _, s := range slides {
		n := CharCount(s.Text)
		stats.Chars += n
		stats.Words += len(strings.Fields(s.Text))
		if n > stats.Longest {
			stats.Longest = n
		}
		if maxChars > 0 && n > maxChars {
			stats.OverBudget = append(stats.OverBudget, s.ID)
		}
	}

	return stats
}

// IsOver reports whether the slide with the given ID exceeds the budget
func (d *DeckStats) IsOver(id int) bool {
	for _, over := range d.OverBudget {
		if over == id {
			return true
		}
	}
	return false
}

// String formats the stats for status lines
func (d *DeckStats) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d slides  |  %d words  |  longest %d/%d chars", d.Slides, d.Words, d.Longest, d.MaxChars))
	if len(d.OverBudget) > 0 {
		b.WriteString(fmt.Sprintf("  |  %d over budget", len(d.OverBudget)))
	}
	return b.String()
}
