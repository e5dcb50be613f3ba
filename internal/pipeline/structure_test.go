package pipeline

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/sant0-9/carousel/internal/scheme"
)

// arcSentences are each too long to share an 80-char slide with another
var arcSentences = []string{
	"We turned ten euros of ad spend into three hundred.",
	"Most founders burn cash testing random creatives.",
	"The winners all shared one clear, specific offer.",
	"Test three creative angles every single week.",
	"Sync the landing page with the promise in the ad.",
	"Follow for the full framework next Monday morning.",
}

func TestStructuredBudget(t *testing.T) {
	tests := []struct {
		maxChars int
		want     int
	}{
		{maxChars: 1, want: 80},
		{maxChars: 80, want: 80},
		{maxChars: 100, want: 80},
		{maxChars: 101, want: 81},
		{maxChars: 102, want: 82},
		{maxChars: 103, want: 82},
		{maxChars: 220, want: 176},
		{maxChars: 1000, want: 800},
	}

	for _, tt := range tests {
		if got := StructuredBudget(tt.maxChars); got != tt.want {
			t.Errorf("StructuredBudget(%d) = %d, want %d", tt.maxChars, got, tt.want)
		}
	}
}

func TestStructureArcLabels(t *testing.T) {
	story := strings.Join(arcSentences, " ")

	slides, err := Structure(story, 100)
	if err != nil {
		t.Fatalf("Structure() error = %v", err)
	}

	want := []StructuredSlide{
		{Title: "Hook", Text: arcSentences[0]},
		{Title: "Problem", Text: arcSentences[1]},
		{Title: "Insight", Text: arcSentences[2]},
		{Title: "Step 1", Text: arcSentences[3]},
		{Title: "Step 2", Text: arcSentences[4]},
		{Title: "CTA", Text: arcSentences[5]},
	}
	if !reflect.DeepEqual(slides, want) {
		t.Errorf("Structure() = %+v, want %+v", slides, want)
	}
}

func TestStructureShortStoryPacksIntoHook(t *testing.T) {
	// 72 chars fit under the 80-char floor, so everything lands on one slide
	story := "Hook sentence. Problem sentence. Insight sentence. A step. CTA sentence."

	slides, err := Structure(story, 80)
	if err != nil {
		t.Fatalf("Structure() error = %v", err)
	}
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(slides))
	}
	if slides[0].Title != "Hook" || slides[0].Text != story {
		t.Errorf("slide = %+v", slides[0])
	}
}

func TestStructureSampleStory(t *testing.T) {
	slides, err := Structure(SampleStory, 220)
	if err != nil {
		t.Fatalf("Structure() error = %v", err)
	}

	wantTitles := []string{"Hook", "Problem", "Insight"}
	if len(slides) != len(wantTitles) {
		t.Fatalf("got %d slides, want %d", len(slides), len(wantTitles))
	}
	for i, s := range slides {
		if s.Title != wantTitles[i] {
			t.Errorf("slide %d title = %q, want %q", i, s.Title, wantTitles[i])
		}
		if CharCount(s.Text) > 176 {
			t.Errorf("slide %d is %d chars, budget 176", i, CharCount(s.Text))
		}
	}
	if slides[2].Text != "Save this post." {
		t.Errorf("last slide text = %q", slides[2].Text)
	}
}

func TestStructureEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		story    string
		maxChars int
		want     []StructuredSlide
	}{
		{
			name:     "empty story",
			story:    "",
			maxChars: 220,
			want:     []StructuredSlide{},
		},
		{
			name:     "single sentence",
			story:    "Just one sentence.",
			maxChars: 200,
			want:     []StructuredSlide{{Title: "Hook", Text: "Just one sentence."}},
		},
		{
			name:     "tiny budget is raised to the floor",
			story:    "Short one. Short two.",
			maxChars: 5,
			want:     []StructuredSlide{{Title: "Hook", Text: "Short one. Short two."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Structure(tt.story, tt.maxChars)
			if err != nil {
				t.Fatalf("Structure() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Structure() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("slide %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStructureRejectsInvalidBudget(t *testing.T) {
	if _, err := Structure("Some story.", 0); !errors.Is(err, ErrInvalidMaxChars) {
		t.Errorf("Structure() error = %v, want ErrInvalidMaxChars", err)
	}
}

func TestStructureWithScheme(t *testing.T) {
	story := strings.Join(arcSentences[:4], " ")

	slides, err := StructureWith(story, 100, scheme.Listicle())
	if err != nil {
		t.Fatalf("StructureWith() error = %v", err)
	}

	var titles []string
	for _, s := range slides {
		titles = append(titles, s.Title)
	}
	want := []string{"Intro", "Point 1", "Point 2", "Takeaway"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}
}

func TestStructureTextMatchesChunk(t *testing.T) {
	for _, maxChars := range []int{50, 100, 220, 400} {
		slides, err := Structure(SampleStory, maxChars)
		if err != nil {
			t.Fatalf("Structure() error = %v", err)
		}
		chunks, _ := Chunk(SampleStory, StructuredBudget(maxChars))
		if len(slides) != len(chunks) {
			t.Fatalf("max %d: %d slides, %d chunks", maxChars, len(slides), len(chunks))
		}
		for i := range slides {
			if slides[i].Text != chunks[i] {
				t.Errorf("max %d slide %d text = %q, want %q", maxChars, i, slides[i].Text, chunks[i])
			}
		}
	}
}

func TestStructureIsIdempotent(t *testing.T) {
	stories := []string{
		"",
		SampleStory,
		strings.Join(arcSentences, " "),
		"Short. " + strings.Repeat("word ", 60) + "end. Tail!\nNew line? Yes.",
	}
	schemes := []*scheme.Scheme{nil, scheme.Default(), scheme.Listicle()}

	for _, story := range stories {
		for _, maxChars := range []int{1, 80, 100, 176, 220, 1000} {
			first, err := Structure(story, maxChars)
			if err != nil {
				t.Fatalf("Structure() error = %v", err)
			}
			second, _ := Structure(story, maxChars)
			if !reflect.DeepEqual(first, second) {
				t.Errorf("Structure() is not idempotent at max %d:\n%+v\n%+v", maxChars, first, second)
			}

			for _, s := range schemes {
				a, err := StructureWith(story, maxChars, s)
				if err != nil {
					t.Fatalf("StructureWith() error = %v", err)
				}
				b, _ := StructureWith(story, maxChars, s)
				if !reflect.DeepEqual(a, b) {
					t.Errorf("StructureWith() is not idempotent at max %d", maxChars)
				}
			}
		}
	}
}
