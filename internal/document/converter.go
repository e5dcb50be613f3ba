package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrUnsupportedFormat is returned for files that are not plain text,
// markdown or HTML
var ErrUnsupportedFormat = errors.New("unsupported story format")

// DefaultMaxBytes caps how much of a story file is read
const DefaultMaxBytes = 1 << 20

// Format names as reported in Metadata.SourceFormat
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Converter turns story files into plain prose
type Converter struct {
	maxBytes int64
}

// NewConverter creates a converter that refuses inputs above maxBytes.
// A non-positive value means DefaultMaxBytes.
func NewConverter(maxBytes int64) *Converter {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Converter{maxBytes: maxBytes}
}

// Load reads a story file with the default converter
func Load(path string) (*Document, error) {
	return NewConverter(0).Convert(context.Background(), path)
}

// FromReader reads a story from r. name picks the format by extension; an
// empty name or "-" is plain text.
func FromReader(r io.Reader, name string) (*Document, error) {
	return NewConverter(0).ConvertReader(context.Background(), r, name)
}

// FormatFor maps a file name to a source format
func FormatFor(name string) (string, error) {
	if name == "" || name == "-" {
		return FormatText, nil
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case "", ".txt", ".text":
		return FormatText, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Convert reads and converts the file at path
func (c *Converter) Convert(ctx context.Context, path string) (*Document, error) {
	// Check the extension before touching the disk
	if _, err := FormatFor(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	return c.ConvertReader(ctx, f, path)
}

// ConvertReader converts the story read from r
func (c *Converter) ConvertReader(ctx context.Context, r io.Reader, name string) (*Document, error) {
	format, err := FormatFor(name)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read story: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("story exceeds %d bytes", c.maxBytes)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := strings.ReplaceAll(string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), "\r\n", "\n")

	var content, title string
	switch format {
	case FormatHTML:
		md, err := htmltomarkdown.ConvertString(raw)
		if err != nil {
			return nil, fmt.Errorf("convert html: %w", err)
		}
		content, title = StripMarkdown(md)
	case FormatMarkdown:
		content, title = StripMarkdown(raw)
	default:
		content = strings.TrimSpace(raw)
	}

	if title == "" {
		title = titleFromName(name)
	}

	return newDocument(content, Metadata{
		Title:         title,
		SourcePath:    name,
		SourceFormat:  format,
		FileSizeBytes: int64(len(data)),
	}), nil
}

var mdParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// StripMarkdown reduces markdown to prose and returns the first heading as
// the title. Headings, list items and table rows without terminal
// punctuation get a full stop so they split as sentences. Code blocks and
// raw HTML are dropped.
func StripMarkdown(md string) (string, string) {
	src := []byte(md)
	f := &flattener{src: src}
	doc := mdParser.Parse(text.NewReader(src))

	var out []string
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, f.block(c)...)
	}
	return strings.Join(out, "\n\n"), f.title
}

type flattener struct {
	src   []byte
	title string
}

// block returns the prose blocks of n, one entry per paragraph
func (f *flattener) block(n ast.Node) []string {
	switch n := n.(type) {
	case *ast.Heading:
		t := f.inline(n)
		if t == "" {
			return nil
		}
		if f.title == "" {
			f.title = t
		}
		return []string{sentence(t)}
	case *ast.Paragraph, *ast.TextBlock:
		if t := f.inline(n); t != "" {
			return []string{t}
		}
		return nil
	case *ast.List:
		if lines := f.listLines(n); len(lines) > 0 {
			return []string{strings.Join(lines, "\n")}
		}
		return nil
	case *east.Table:
		if rows := f.tableRows(n); len(rows) > 0 {
			return []string{strings.Join(rows, "\n")}
		}
		return nil
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.ThematicBreak, *ast.HTMLBlock:
		return nil
	}

	var out []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, f.block(c)...)
	}
	return out
}

func (f *flattener) listLines(list *ast.List) []string {
	var lines []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.List:
				lines = append(lines, f.listLines(c)...)
			case *ast.Paragraph, *ast.TextBlock:
				if t := f.inline(c); t != "" {
					lines = append(lines, sentence(t))
				}
			default:
				lines = append(lines, f.block(c)...)
			}
		}
	}
	return lines
}

// tableRows renders each row, header included, as one sentence of cells
func (f *flattener) tableRows(table *east.Table) []string {
	var rows []string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if t := f.inline(cell); t != "" {
				cells = append(cells, t)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, sentence(strings.Join(cells, ", ")))
		}
	}
	return rows
}

func (f *flattener) inline(n ast.Node) string {
	var b strings.Builder
	f.writeInline(&b, n)
	return strings.TrimSpace(b.String())
}

func (f *flattener) writeInline(b *strings.Builder, n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			v := c.Segment.Value(f.src)
			if !c.IsRaw() {
				v = util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
			}
			b.Write(v)
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.CodeSpan:
			for t := c.FirstChild(); t != nil; t = t.NextSibling() {
				switch t := t.(type) {
				case *ast.Text:
					b.Write(t.Segment.Value(f.src))
				case *ast.String:
					b.Write(t.Value)
				}
			}
		case *ast.AutoLink:
			b.Write(c.Label(f.src))
		case *ast.RawHTML, *east.TaskCheckBox:
		case *ast.Emphasis:
			delim := f.intraword(c)
			b.WriteString(delim)
			f.writeInline(b, c)
			b.WriteString(delim)
		default:
			f.writeInline(b, c)
		}
	}
}

// intraword returns the delimiter of an emphasis run that sits inside a
// word, as in 2*3*4, or "" for real emphasis.
func (f *flattener) intraword(e *ast.Emphasis) string {
	first, last := edgeText(e, true), edgeText(e, false)
	if first == nil || last == nil {
		return ""
	}
	open, end := first.Segment.Start-e.Level, last.Segment.Stop+e.Level
	if open < 0 || end > len(f.src) {
		return ""
	}
	delim := f.src[open:first.Segment.Start]
	if !bytes.Equal(delim, f.src[last.Segment.Stop:end]) {
		return ""
	}
	before, _ := utf8.DecodeLastRune(f.src[:open])
	after, _ := utf8.DecodeRune(f.src[end:])
	if isWordRune(before) && isWordRune(after) {
		return string(delim)
	}
	return ""
}

// edgeText finds the first or last text node under n
func edgeText(n ast.Node, first bool) *ast.Text {
	c := n.LastChild()
	if first {
		c = n.FirstChild()
	}
	for c != nil {
		if t, ok := c.(*ast.Text); ok {
			return t
		}
		if t := edgeText(c, first); t != nil {
			return t
		}
		if first {
			c = c.NextSibling()
		} else {
			c = c.PreviousSibling()
		}
	}
	return nil
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func sentence(s string) string {
	if r, _ := utf8.DecodeLastRuneInString(s); s == "" || strings.ContainsRune(".!?:;", r) {
		return s
	}
	return s + "."
}

func titleFromName(name string) string {
	if name == "" || name == "-" {
		return "Untitled story"
	}
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
