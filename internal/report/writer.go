package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nao1215/wikihop/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the full graph to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(graph *model.HopGraph) (int, error)

	// WriteSummary outputs only the counters of a graph.
	WriteSummary(summary *model.Summary) (int, error)
}

// Format names a report format.
type Format string

const (
	// FormatText is the plain neighbor listing.
	FormatText Format = "text"
	// FormatMarkdown is a Markdown document.
	FormatMarkdown Format = "markdown"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for a format name that has no writer.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatJSON}
}

// ParseFormat converts a user supplied name into a Format.
// "md" is accepted for markdown and "txt" for text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Extension returns the file extension used for the format, with the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// NewWriter creates the writer for format.
func NewWriter(format Format, output io.Writer, logger *slog.Logger) (Writer, error) {
	switch format {
	case FormatText:
		return NewTextWriter(output, WithLogger(logger)), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output, WithLogger(logger)), nil
	case FormatJSON:
		return NewJSONWriter(output, WithLogger(logger), WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the graph to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(graph *model.HopGraph) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(graph)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Option configures any writer in this package.
type Option func(*baseWriter)

// WithLogger sets the logger that receives decode failures.
func WithLogger(logger *slog.Logger) Option {
	return func(b *baseWriter) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithPrettyPrint enables indented output. Only the JSON writer uses it.
func WithPrettyPrint() Option {
	return func(b *baseWriter) {
		b.indent = "  "
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
	logger *slog.Logger
	indent string
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, opts []Option) baseWriter {
	b := baseWriter{output: output, logger: slog.Default()}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// names returns a fresh namer. Collators are not safe for concurrent use,
// so every Write call gets its own.
func (b *baseWriter) names() *namer {
	return newNamer(b.logger)
}
