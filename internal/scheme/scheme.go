package scheme

import (
	"fmt"
	"strconv"
	"strings"
)

// placeholder is replaced by the 1-based counter in Step and Generic templates
const placeholder = "{n}"

// Scheme is a label vocabulary for structured slides
type Scheme struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Lead        []string `yaml:"lead"`
	Step        string   `yaml:"step"`
	Closing     string   `yaml:"closing"`
	Generic     string   `yaml:"generic"`

	Path string `yaml:"-"` // Source file, empty for built-ins
}

// Default returns the Hook / Problem / Insight / Step N / CTA arc
func Default() *Scheme {
	return &Scheme{
		Name:        "arc",
		Description: "Hook, Problem, Insight, numbered steps and a closing call to action",
		Lead:        []string{"Hook", "Problem", "Insight"},
		Step:        "Step {n}",
		Closing:     "CTA",
		Generic:     "Slide {n}",
	}
}

// Listicle returns a scheme for numbered-list posts
func Listicle() *Scheme {
	return &Scheme{
		Name:        "listicle",
		Description: "Intro, numbered points and a takeaway",
		Lead:        []string{"Intro"},
		Step:        "Point {n}",
		Closing:     "Takeaway",
		Generic:     "Slide {n}",
	}
}

// Builtins returns fresh copies of the schemes that ship with carousel
func Builtins() []*Scheme {
	return []*Scheme{Default(), Listicle()}
}

// Validate checks that the templates can number slides
func (s *Scheme) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("scheme name is required")
	}
	if !strings.Contains(s.Step, placeholder) {
		return fmt.Errorf("scheme %s: step template must contain %s", s.Name, placeholder)
	}
	if !strings.Contains(s.Generic, placeholder) {
		return fmt.Errorf("scheme %s: generic template must contain %s", s.Name, placeholder)
	}
	for i, label := range s.Lead {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("scheme %s: lead label %d is empty", s.Name, i+1)
		}
	}
	return nil
}

// Titles labels n parts by position.
//
// The rule table, evaluated in order for part i of n:
//
//	i < len(Lead)               -> Lead[i]
//	i == n-1 and n > len(Lead)  -> Closing (when set)
//	otherwise                   -> Step, numbered from 1 after the lead
//
// With the default arc and n == 3 the last part is Insight and no CTA is
// produced.
func (s *Scheme) Titles(n int) []string {
	if n <= 0 {
		return nil
	}
	titles := make([]string, 0, n)
	for i := 0; i < n; i++ {
		titles = append(titles, s.title(i, n))
	}
	return titles
}

func (s *Scheme) title(i, n int) string {
	lead := len(s.Lead)
	switch {
	case i < lead:
		return s.Lead[i]
	case i == n-1 && s.Closing != "":
		return s.Closing
	default:
		return expand(s.Step, i-lead+1)
	}
}

// GenericTitle returns the positional fallback title for the i-th part (0-based)
func (s *Scheme) GenericTitle(i int) string {
	return expand(s.Generic, i+1)
}

func expand(template string, n int) string {
	return strings.ReplaceAll(template, placeholder, strconv.Itoa(n))
}
