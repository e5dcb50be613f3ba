package document

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// previewRunes bounds Document.Preview
const previewRunes = 280

// Document is a story ready for the pipeline
type Document struct {
	Content  string
	Preview  string
	Metadata Metadata
}

// Metadata contains document metadata
type Metadata struct {
	Title         string    `json:"title"`
	SourcePath    string    `json:"source_path"`
	SourceFormat  string    `json:"source_format"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	WordCount     int       `json:"word_count"`
	CharCount     int       `json:"char_count"`
	ConvertedAt   time.Time `json:"converted_at"`
}

// FileSizeHuman returns human-readable file size
func (m Metadata) FileSizeHuman() string {
	bytes := m.FileSizeBytes
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}

func newDocument(content string, meta Metadata) *Document {
	meta.WordCount = len(strings.Fields(content))
	meta.CharCount = utf8.RuneCountInString(content)
	meta.ConvertedAt = time.Now()
	return &Document{
		Content:  content,
		Preview:  preview(content),
		Metadata: meta,
	}
}

func preview(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(flat) <= previewRunes {
		return flat
	}
	runes := []rune(flat)
	return strings.TrimSpace(string(runes[:previewRunes])) + "..."
}
