// Package output writes migration results in the formats the CLI offers.
package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/markshift/pkg/migrate"
)

// Format represents output format types.
type Format string

const (
	FormatCode     Format = "code"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatPreview  Format = "preview"
	FormatMarkdown Format = "markdown"
)

// Writer serializes a migration result.
type Writer interface {
	Write(res *migrate.Result) error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty    bool
	indent    string
	withStats bool
	title     string
}

// WithPretty enables pretty-printing of JSON.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the JSON indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// WithStats includes migration stats in structured output.
func WithStats(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.withStats = enabled
	}
}

// WithTitle sets the page title of the preview document.
func WithTitle(title string) WriterOption {
	return func(c *writerConfig) {
		c.title = title
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
		title:  "markshift preview",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatCode, "":
		return &CodeWriter{w: w}, nil
	case FormatJSON:
		return &JSONWriter{w: w, cfg: cfg}, nil
	case FormatYAML:
		return &YAMLWriter{w: w, cfg: cfg}, nil
	case FormatPreview:
		return &PreviewWriter{w: w, title: cfg.title}, nil
	case FormatMarkdown:
		return &MarkdownWriter{w: w}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
