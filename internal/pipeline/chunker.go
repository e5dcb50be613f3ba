package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidMaxChars is returned when the character budget is not positive
var ErrInvalidMaxChars = errors.New("maxChars must be positive")

// Chunk splits a story into chunks of at most maxChars characters by
// greedily packing whole sentences. A sentence longer than maxChars is
// never cut; it becomes a chunk of its own.
//
// Characters are counted as runes. Sentence detection is the usual
// punctuation heuristic and will split after abbreviations ("e.g. "),
// so treat it as an approximation.
func Chunk(story string, maxChars int) ([]string, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxChars, maxChars)
	}

	var chunks []string
	current := ""

	for _, sentence := range SplitSentences(story) {
		candidate := strings.TrimSpace(current + " " + sentence)
		if CharCount(candidate) <= maxChars {
			current = candidate
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
		}
		current = sentence
	}

	// Don't forget the last chunk
	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks, nil
}

// SplitSentences normalizes newlines and breaks the story after '.', '!'
// or '?' when followed by whitespace. The terminator stays with its
// sentence; results are trimmed and empty ones dropped.
func SplitSentences(story string) []string {
	text := collapseNewlines(story)

	var sentences []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	start := 0
	for i, r := range text {
		if !isTerminator(r) {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next >= len(text) {
			break
		}
		if nr, _ := utf8.DecodeRuneInString(text[next:]); unicode.IsSpace(nr) {
			add(text[start:next])
			start = next
		}
	}
	add(text[start:])

	return sentences
}

// CharCount returns the length of text in runes
func CharCount(text string) int {
	return utf8.RuneCountInString(text)
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// collapseNewlines replaces each run of '\n' with a single space
func collapseNewlines(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if r == '\n' {
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}
