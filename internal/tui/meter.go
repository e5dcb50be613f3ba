package tui

import (
	"fmt"

	"github.com/sant0-9/carousel/internal/pipeline"
)

// slideCount is how many slides the story packs into at budget. A
// non-positive budget counts as zero.
func slideCount(story string, budget int) int {
	if budget <= 0 {
		return 0
	}
	chunks, err := pipeline.Chunk(story, budget)
	if err != nil {
		return 0
	}
	return len(chunks)
}

// budgetMeter renders "123/220" and marks it when over
func budgetMeter(text string, maxChars int) string {
	n := pipeline.CharCount(text)
	label := fmt.Sprintf("%d/%d chars", n, maxChars)
	if maxChars > 0 && n > maxChars {
		return styleOver.Render(label + " over budget")
	}
	return styleStatusBar.Render(label)
}
