package summarizer

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// JSONFormatter renders a Summary as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format implements the Formatter interface.
func (f *JSONFormatter) Format(summary *Summary) string {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		// Summary holds only plain values
		return "{}\n"
	}
	return string(data) + "\n"
}

// ForPath picks a formatter from the extension of path: Markdown for .md, JSON otherwise.
func ForPath(path string) Formatter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return NewMarkdownFormatter()
	default:
		return NewJSONFormatter()
	}
}
