// Package cli dispatches carousel subcommands
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sant0-9/carousel/internal/config"
	"github.com/sant0-9/carousel/internal/document"
	"github.com/sant0-9/carousel/internal/logger"
	"github.com/sant0-9/carousel/internal/scheme"
	"github.com/sant0-9/carousel/internal/server"
	"github.com/sant0-9/carousel/internal/service"
	"github.com/sant0-9/carousel/internal/tui"
	"github.com/sant0-9/carousel/internal/version"
	"github.com/sant0-9/carousel/internal/writer"
)

// schemePreviewSlides is the deck length shown by `carousel schemes`
const schemePreviewSlides = 6

type options struct {
	MaxChars int
	Auto     bool
	Scheme   string
	Format   string
	OutPath  string
	Addr     string
	Title    string
	ShowHelp bool
	Input    string
	setFlags map[string]bool
}

// Run executes one subcommand. No subcommand, or a file path, opens the
// editor.
func Run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	cmd := "edit"
	if len(args) > 0 {
		switch args[0] {
		case "edit", "generate", "chunk", "serve", "schemes", "version":
			cmd, args = args[0], args[1:]
		case "help", "-h", "-help", "--help":
			usage(stderr)
			return nil
		case "-version", "--version":
			cmd, args = "version", nil
		}
	}

	switch cmd {
	case "version":
		_, _ = fmt.Fprintln(stdout, version.String())
		return nil
	case "schemes":
		return runSchemes(stdout)
	}

	opts, err := parseFlags(cmd, args, stderr)
	if err != nil {
		return err
	}
	if opts.ShowHelp {
		return nil
	}

	switch cmd {
	case "generate":
		return runGenerate(opts, stdin, stdout)
	case "chunk":
		return runChunk(opts, stdin, stdout)
	case "serve":
		return runServe(opts)
	default:
		return runEdit(opts)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: carousel <command> [flags] [file]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  edit [file]       Open the slide editor (default)")
	fmt.Fprintln(w, "  generate [file|-] Print a deck for a story")
	fmt.Fprintln(w, "  chunk [file|-]    Print the raw chunks for a story")
	fmt.Fprintln(w, "  serve             Run the HTTP API")
	fmt.Fprintln(w, "  schemes           List title schemes")
	fmt.Fprintln(w, "  version           Print version information")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Example:")
	fmt.Fprintln(w, "  carousel generate -max-chars 180 -format markdown story.md")
}

func parseFlags(cmd string, args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("carousel "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := options{}
	switch cmd {
	case "serve":
		fs.StringVar(&opts.Addr, "addr", "", "Listen address (default from config, :8080)")
	default:
		fs.IntVar(&opts.MaxChars, "max-chars", 0, "Maximum characters per slide (default from config)")
		fs.BoolVar(&opts.Auto, "auto", false, "Label slides with the story arc (default from config)")
		fs.StringVar(&opts.Scheme, "scheme", "", "Title scheme name (default from config)")
		fs.StringVar(&opts.Title, "title", "", "Deck title (default from the file name)")
	}
	if cmd == "generate" || cmd == "chunk" {
		fs.StringVar(&opts.Format, "format", "", "Output format: "+formatNames()+" (default from -out, else text)")
		fs.StringVar(&opts.OutPath, "out", "", "Output file (default stdout)")
	}

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: carousel %s [flags] [file|-]\n\n", cmd)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			opts.ShowHelp = true
			return opts, nil
		}
		return options{}, err
	}

	opts.setFlags = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.setFlags[f.Name] = true
	})

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		opts.Input = rest[0]
	default:
		fs.Usage()
		return options{}, fmt.Errorf("expected at most one input file, got %d", len(rest))
	}

	return opts, nil
}

func formatNames() string {
	names := make([]string, len(writer.Formats))
	for i, f := range writer.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// request turns the flags into a service request. Unset flags fall back to
// config.
func (o options) request(story string) service.Request {
	req := service.Request{Story: story, Title: o.Title, Scheme: o.Scheme}
	if o.setFlags["max-chars"] {
		n := o.MaxChars
		req.MaxChars = &n
	}
	if o.setFlags["auto"] {
		auto := o.Auto
		req.AutoStructure = &auto
	}
	return req
}

// outputFormat picks -format, else the -out extension, else text
func (o options) outputFormat() (writer.Format, error) {
	if o.Format != "" {
		return writer.ParseFormat(o.Format)
	}
	if o.OutPath != "" {
		if f, err := writer.ParseFormat(filepath.Ext(o.OutPath)); err == nil {
			return f, nil
		}
	}
	return writer.FormatText, nil
}

func loadService() (*service.Service, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	idx, err := loadSchemes()
	if err != nil {
		return nil, err
	}
	return service.New(cfg, idx), nil
}

func loadSchemes() (*scheme.Index, error) {
	dir, err := config.SchemesDir()
	if err != nil {
		return nil, err
	}
	idx, err := scheme.NewIndex(dir)
	if err != nil {
		return nil, fmt.Errorf("load schemes: %w", err)
	}
	return idx, nil
}

// readStory reads the input file, or stdin for "" and "-"
func readStory(input string, stdin io.Reader) (*document.Document, error) {
	if input == "" || input == "-" {
		if stdin == nil {
			return nil, errors.New("no input: pass a file or pipe a story on stdin")
		}
		return document.FromReader(stdin, "-")
	}
	return document.Load(input)
}

// openOutput returns stdout or the -out file
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

func runGenerate(opts options, stdin io.Reader, stdout io.Writer) error {
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}
	svc, err := loadService()
	if err != nil {
		return err
	}
	doc, err := readStory(opts.Input, stdin)
	if err != nil {
		return err
	}

	if opts.Title == "" {
		opts.Title = doc.Metadata.Title
	}
	deck, err := svc.Build(opts.request(doc.Content))
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(opts.OutPath, stdout)
	if err != nil {
		return err
	}
	if err := writer.NewWriter(format).Write(out, deck); err != nil {
		_ = closeOut()
		return fmt.Errorf("write deck: %w", err)
	}
	return closeOut()
}

func runChunk(opts options, stdin io.Reader, stdout io.Writer) error {
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}
	svc, err := loadService()
	if err != nil {
		return err
	}
	doc, err := readStory(opts.Input, stdin)
	if err != nil {
		return err
	}

	chunks, _, err := svc.Chunk(opts.request(doc.Content))
	if err != nil {
		return err
	}
	if chunks == nil {
		chunks = []string{}
	}

	out, closeOut, err := openOutput(opts.OutPath, stdout)
	if err != nil {
		return err
	}

	switch format {
	case writer.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(chunks)
	default:
		for _, c := range chunks {
			if _, err = fmt.Fprintln(out, c); err != nil {
				break
			}
		}
	}
	if err != nil {
		_ = closeOut()
		return fmt.Errorf("write chunks: %w", err)
	}
	return closeOut()
}

func runServe(opts options) error {
	svc, err := loadService()
	if err != nil {
		return err
	}
	cfg := svc.Config()

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	addr := cfg.Server.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting carousel", "version", version.Version, "schemes", svc.Schemes().Count())
	return server.New(svc, log).Run(ctx, addr)
}

func runSchemes(stdout io.Writer) error {
	idx, err := loadSchemes()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tORIGIN\tTITLES")
	for _, s := range idx.GetAll() {
		origin := "built-in"
		if s.Path != "" {
			origin = s.Path
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, origin, strings.Join(s.Titles(schemePreviewSlides), ", "))
	}
	return tw.Flush()
}

func runEdit(opts options) error {
	appOpts, err := editOptions(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewApp(appOpts), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// editOptions builds the editor options. Flags become session overrides
// and leave the loaded config untouched, since the editor saves it.
func editOptions(opts options) (tui.Options, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return tui.Options{}, fmt.Errorf("load config: %w", err)
	}
	idx, err := loadSchemes()
	if err != nil {
		return tui.Options{}, err
	}

	appOpts := tui.Options{
		Config:     cfg,
		Schemes:    idx,
		StoryTitle: opts.Title,
		NeedsSetup: !config.Exists(),
	}
	if opts.setFlags["max-chars"] {
		n := opts.MaxChars
		appOpts.MaxChars = &n
	}
	if opts.setFlags["auto"] {
		auto := opts.Auto
		appOpts.AutoStructure = &auto
	}
	if opts.Scheme != "" {
		if _, err := idx.Lookup(opts.Scheme); err != nil {
			return tui.Options{}, err
		}
		appOpts.Scheme = opts.Scheme
	}

	if opts.Input != "" {
		doc, err := document.Load(opts.Input)
		if err != nil {
			return tui.Options{}, err
		}
		appOpts.Story = doc.Content
		appOpts.Source = fmt.Sprintf("%s · %s · %s · %d words",
			filepath.Base(opts.Input), doc.Metadata.SourceFormat, doc.Metadata.FileSizeHuman(), doc.Metadata.WordCount)
		if appOpts.StoryTitle == "" {
			appOpts.StoryTitle = doc.Metadata.Title
		}
	}

	return appOpts, nil
}
