package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sant0-9/carousel/internal/config"
	"github.com/sant0-9/carousel/internal/pipeline"
	"github.com/sant0-9/carousel/internal/scheme"
	"github.com/sant0-9/carousel/internal/writer"
)

// isolateConfig points the config directory at a fresh temp dir
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, dir)
	return dir
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := Run([]string{"version"}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "carousel version=") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunGenerateJSONFromStdin(t *testing.T) {
	isolateConfig(t)

	var stdout, stderr bytes.Buffer
	err := Run([]string{"generate", "-format", "json"}, strings.NewReader(pipeline.SampleStory), &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run() error = %v; stderr=%s", err, stderr.String())
	}

	var deck struct {
		Mode   string           `json:"mode"`
		Scheme string           `json:"scheme"`
		Slides []pipeline.Slide `json:"slides"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &deck); err != nil {
		t.Fatalf("unmarshal deck: %v\n%s", err, stdout.String())
	}
	if deck.Mode != "structured" || deck.Scheme != "arc" {
		t.Errorf("mode = %q scheme = %q, want structured arc", deck.Mode, deck.Scheme)
	}
	if len(deck.Slides) != 3 || deck.Slides[0].Title != "Hook" {
		t.Errorf("slides = %+v, want 3 starting with Hook", deck.Slides)
	}
}

func TestRunGenerateFlagsOverrideConfig(t *testing.T) {
	isolateConfig(t)

	story := filepath.Join(t.TempDir(), "story.txt")
	if err := os.WriteFile(story, []byte(pipeline.SampleStory), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	err := Run([]string{"generate", "-auto=false", "-max-chars", "80", story}, nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run() error = %v; stderr=%s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "[1/6] Slide 1\n") {
		t.Errorf("output does not start with the first of 6 chunked slides:\n%s", out)
	}
	if strings.Contains(out, "Hook") {
		t.Errorf("chunked output carries arc titles:\n%s", out)
	}
}

func TestRunGenerateInfersFormatFromOut(t *testing.T) {
	isolateConfig(t)

	outPath := filepath.Join(t.TempDir(), "deck", "slides.md")
	var stdout, stderr bytes.Buffer
	err := Run([]string{"generate", "-title", "Saving", "-out", outPath, "-"}, strings.NewReader(pipeline.SampleStory), &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run() error = %v; stderr=%s", err, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty when -out is set, got %q", stdout.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	md := string(data)
	for _, want := range []string{"# Saving\n", "## 1/3 · Hook", writer.Footer} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRunChunk(t *testing.T) {
	isolateConfig(t)

	var stdout, stderr bytes.Buffer
	err := Run([]string{"chunk", "-max-chars", "12", "-format", "json"}, strings.NewReader("One. Two three four five. Six? Seven!"), &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run() error = %v; stderr=%s", err, stderr.String())
	}

	var chunks []string
	if err := json.Unmarshal(stdout.Bytes(), &chunks); err != nil {
		t.Fatalf("unmarshal chunks: %v", err)
	}
	want := []string{"One.", "Two three four five.", "Six? Seven!"}
	if strings.Join(chunks, "|") != strings.Join(want, "|") {
		t.Errorf("chunks = %q, want %q", chunks, want)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"zero budget", []string{"chunk", "-max-chars", "0"}, pipeline.ErrInvalidMaxChars},
		{"negative budget", []string{"generate", "-max-chars", "-3"}, pipeline.ErrInvalidMaxChars},
		{"unknown scheme", []string{"generate", "-scheme", "nope"}, scheme.ErrNotFound},
		{"unknown format", []string{"generate", "-format", "pdf"}, writer.ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)

			var stdout, stderr bytes.Buffer
			err := Run(tt.args, strings.NewReader("Some story."), &stdout, &stderr)
			if !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRunRejectsExtraArgs(t *testing.T) {
	isolateConfig(t)

	var stdout, stderr bytes.Buffer
	if err := Run([]string{"generate", "a.txt", "b.txt"}, nil, &stdout, &stderr); err == nil {
		t.Fatal("Run() error = nil, want an error for two inputs")
	}
}

func TestRunSchemes(t *testing.T) {
	dir := isolateConfig(t)

	schemesDir := filepath.Join(dir, "schemes")
	if err := os.MkdirAll(schemesDir, 0755); err != nil {
		t.Fatal(err)
	}
	custom := "name: thread\ndescription: Numbered thread\ngeneric: \"{n}/\"\nstep: \"{n}/\"\n"
	if err := os.WriteFile(filepath.Join(schemesDir, "thread.yaml"), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if err := Run([]string{"schemes"}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"arc", "listicle", "thread", "Hook, Problem, Insight"} {
		if !strings.Contains(out, want) {
			t.Errorf("schemes output missing %q:\n%s", want, out)
		}
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := Run([]string{"generate", "-h"}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(stderr.String(), "-max-chars") {
		t.Errorf("help output missing flags:\n%s", stderr.String())
	}
}

func TestEditOptionsKeepFlagsOutOfConfig(t *testing.T) {
	isolateConfig(t)

	var stderr bytes.Buffer
	opts, err := parseFlags("edit", []string{"-max-chars", "0", "-auto=false", "-scheme", "listicle"}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	appOpts, err := editOptions(opts)
	if err != nil {
		t.Fatalf("editOptions() error = %v", err)
	}

	if appOpts.Config.MaxChars != 220 || !appOpts.Config.AutoStructure || appOpts.Config.Scheme != "arc" {
		t.Errorf("config changed by flags: %+v", appOpts.Config)
	}
	if appOpts.MaxChars == nil || *appOpts.MaxChars != 0 {
		t.Errorf("MaxChars override = %v, want 0", appOpts.MaxChars)
	}
	if appOpts.AutoStructure == nil || *appOpts.AutoStructure {
		t.Errorf("AutoStructure override = %v, want false", appOpts.AutoStructure)
	}
	if appOpts.Scheme != "listicle" {
		t.Errorf("Scheme override = %q, want listicle", appOpts.Scheme)
	}
}

func TestEditOptionsWithoutFlags(t *testing.T) {
	isolateConfig(t)

	path := filepath.Join(t.TempDir(), "launch.md")
	if err := os.WriteFile(path, []byte("# Launch day\n\nWe shipped it."), 0o644); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	opts, err := parseFlags("edit", []string{path}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	appOpts, err := editOptions(opts)
	if err != nil {
		t.Fatalf("editOptions() error = %v", err)
	}

	if appOpts.MaxChars != nil || appOpts.AutoStructure != nil || appOpts.Scheme != "" {
		t.Errorf("unexpected overrides: %v %v %q", appOpts.MaxChars, appOpts.AutoStructure, appOpts.Scheme)
	}
	if !appOpts.NeedsSetup {
		t.Error("NeedsSetup = false, want true without a config file")
	}
	if appOpts.StoryTitle != "Launch day" {
		t.Errorf("StoryTitle = %q, want Launch day", appOpts.StoryTitle)
	}
	if !strings.Contains(appOpts.Story, "We shipped it.") {
		t.Errorf("Story = %q", appOpts.Story)
	}
}

func TestEditOptionsRejectsUnknownScheme(t *testing.T) {
	isolateConfig(t)

	var stderr bytes.Buffer
	opts, err := parseFlags("edit", []string{"-scheme", "nope"}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if _, err := editOptions(opts); !errors.Is(err, scheme.ErrNotFound) {
		t.Errorf("editOptions() error = %v, want ErrNotFound", err)
	}
}
