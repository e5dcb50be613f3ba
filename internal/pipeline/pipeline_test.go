package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/sant0-9/carousel/internal/scheme"
)

func TestGenerateChunked(t *testing.T) {
	slides, err := Generate(SampleStory, Options{MaxChars: 220})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(slides))
	}

	for i, s := range slides {
		if s.ID != i+1 {
			t.Errorf("slide %d ID = %d", i, s.ID)
		}
		if want := "Slide " + string(rune('1'+i)); s.Title != want {
			t.Errorf("slide %d title = %q, want %q", i, s.Title, want)
		}
	}
	if !strings.HasSuffix(slides[0].Text, "(problem, outcome, social proof).") {
		t.Errorf("first slide text = %q", slides[0].Text)
	}
	if !strings.HasPrefix(slides[1].Text, "Sync your landing page") {
		t.Errorf("second slide text = %q", slides[1].Text)
	}
}

func TestGenerateStructured(t *testing.T) {
	slides, err := Generate(strings.Join(arcSentences, " "), Options{MaxChars: 100, AutoStructure: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []string{"Hook", "Problem", "Insight", "Step 1", "Step 2", "CTA"}
	if len(slides) != len(want) {
		t.Fatalf("got %d slides, want %d", len(slides), len(want))
	}
	for i, s := range slides {
		if s.ID != i+1 || s.Title != want[i] || s.Text != arcSentences[i] {
			t.Errorf("slide %d = %+v", i, s)
		}
	}
}

func TestGenerateWithScheme(t *testing.T) {
	s := &scheme.Scheme{
		Name:    "story",
		Lead:    []string{"Once"},
		Step:    "Beat {n}",
		Generic: "Card {n}",
	}

	chunked, err := Generate("First. Second.", Options{MaxChars: 6, Scheme: s})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if chunked[0].Title != "Card 1" || chunked[1].Title != "Card 2" {
		t.Errorf("chunked titles = %q, %q", chunked[0].Title, chunked[1].Title)
	}

	structured, err := Generate(strings.Join(arcSentences[:3], " "), Options{MaxChars: 100, AutoStructure: true, Scheme: s})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	got := []string{structured[0].Title, structured[1].Title, structured[2].Title}
	want := []string{"Once", "Beat 1", "Beat 2"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("structured title %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGenerateEmptyStory(t *testing.T) {
	for _, auto := range []bool{false, true} {
		slides, err := Generate("   ", Options{MaxChars: 220, AutoStructure: auto})
		if err != nil {
			t.Fatalf("Generate(auto=%v) error = %v", auto, err)
		}
		if len(slides) != 0 {
			t.Errorf("Generate(auto=%v) = %d slides, want 0", auto, len(slides))
		}
	}
}

func TestGenerateInvalidBudget(t *testing.T) {
	for _, auto := range []bool{false, true} {
		if _, err := Generate("Story.", Options{MaxChars: -1, AutoStructure: auto}); !errors.Is(err, ErrInvalidMaxChars) {
			t.Errorf("Generate(auto=%v) error = %v, want ErrInvalidMaxChars", auto, err)
		}
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantMode   Mode
		wantBudget int
	}{
		{name: "chunked", opts: Options{MaxChars: 220}, wantMode: ModeChunked, wantBudget: 220},
		{name: "structured", opts: Options{MaxChars: 220, AutoStructure: true}, wantMode: ModeStructured, wantBudget: 176},
		{name: "structured floor", opts: Options{MaxChars: 50, AutoStructure: true}, wantMode: ModeStructured, wantBudget: 80},
		{name: "invalid passes through", opts: Options{MaxChars: 0, AutoStructure: true}, wantMode: ModeStructured, wantBudget: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Mode(); got != tt.wantMode {
				t.Errorf("Mode() = %v, want %v", got, tt.wantMode)
			}
			if got := tt.opts.Budget(); got != tt.wantBudget {
				t.Errorf("Budget() = %d, want %d", got, tt.wantBudget)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	if ModeChunked.String() != "chunked" || ModeStructured.String() != "structured" {
		t.Errorf("unexpected mode names %q %q", ModeChunked, ModeStructured)
	}
	if Mode(9).String() != "unknown" {
		t.Errorf("Mode(9) = %q", Mode(9))
	}
}
