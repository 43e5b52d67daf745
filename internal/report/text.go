package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/wikihop/internal/model"
)

// TextWriter writes the plain neighbor listing:
//
//	Article Name: <origin>
//	1-Hop Neighbors (<n>):
//		<name>
//	Known Redirects (<r>):
//		<source> -> <target>
//
// Members are indented with a single tab.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...Option) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output, opts)}
}

// Write outputs the graph.
func (w *TextWriter) Write(graph *model.HopGraph) (int, error) {
	names := w.names()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Article Name: %s\n", names.display(graph.Origin))

	for _, layer := range graph.Neighbors() {
		fmt.Fprintf(&sb, "%d-Hop Neighbors (%d):\n", layer.Hop, len(layer.Members))
		for _, e := range names.members(layer.Members) {
			sb.WriteString("\t")
			sb.WriteString(e.name)
			sb.WriteString("\n")
		}
	}

	fmt.Fprintf(&sb, "Known Redirects (%d):\n", len(graph.Redirects))
	for _, r := range names.redirects(graph.Redirects) {
		fmt.Fprintf(&sb, "\t%s -> %s\n", r.source.name, r.target.name)
	}

	return io.WriteString(w.output, sb.String())
}

// WriteSummary outputs one line per layer followed by the run counters.
func (w *TextWriter) WriteSummary(summary *model.Summary) (int, error) {
	names := w.names()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Article Name: %s\n", names.display(summary.Origin))
	for hop := 1; hop < len(summary.LayerSizes); hop++ {
		fmt.Fprintf(&sb, "%d-Hop Neighbors: %d\n", hop, summary.LayerSizes[hop])
	}
	fmt.Fprintf(&sb, "Total Neighbors: %d\n", summary.TotalNeighbors)
	fmt.Fprintf(&sb, "Known Redirects: %d\n", summary.RedirectCount)
	fmt.Fprintf(&sb, "Requests: %d (%d retries) in %s\n", summary.Requests, summary.Retries, summary.Elapsed.Round(time.Millisecond))

	return io.WriteString(w.output, sb.String())
}
