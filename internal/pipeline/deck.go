package pipeline

import "fmt"

// The deck helpers never modify their input; each returns a new slice.

// AddSlide appends a blank slide titled "Slide N"
func AddSlide(slides []Slide) []Slide {
	out := cloneSlides(slides, len(slides)+1)
	n := len(out) + 1
	return append(out, Slide{ID: n, Title: fmt.Sprintf("Slide %d", n)})
}

// RemoveSlide drops the slide with the given ID and renumbers the rest
func RemoveSlide(slides []Slide, id int) []Slide {
	out := make([]Slide, 0, len(slides))
	for _, s := range slides {
		if s.ID == id {
			continue
		}
		s.ID = len(out) + 1
		out = append(out, s)
	}
	return out
}

// UpdateSlide replaces the title and text of the slide at index
func UpdateSlide(slides []Slide, index int, title, text string) ([]Slide, error) {
	if index < 0 || index >= len(slides) {
		return nil, fmt.Errorf("slide index %d out of range [0,%d)", index, len(slides))
	}
	out := cloneSlides(slides, len(slides))
	out[index].Title = title
	out[index].Text = text
	return out, nil
}

func cloneSlides(slides []Slide, capacity int) []Slide {
	out := make([]Slide, len(slides), capacity)
	copy(out, slides)
	return out
}
