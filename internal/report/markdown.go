package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/wikihop/internal/model"
)

// MarkdownWriter outputs the graph as a Markdown document with a section per
// hop and a redirect table.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...Option) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output, opts)}
}

// Write outputs the full graph in Markdown format.
func (w *MarkdownWriter) Write(graph *model.HopGraph) (int, error) {
	names := w.names()
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, graph, names)
	w.writeSummaryTable(md, graph.Summary())
	w.writeLayers(md, graph, names)
	w.writeRedirects(md, graph, names)

	return len(md.String()), md.Build()
}

// WriteSummary outputs the counters only.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1(w.names().display(summary.Origin))
	md.PlainText("")
	w.writeSummaryTable(md, summary)
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, graph *model.HopGraph, names *namer) {
	title := graph.Title
	if title == "" {
		title = names.display(graph.Origin)
	}
	md.H1(title)
	md.PlainText("")

	if graph.Lead != "" {
		md.PlainText(graph.Lead)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeSummaryTable(md *markdown.Markdown, summary *model.Summary) {
	rows := [][]string{
		{"Origin", "`" + summary.Origin + "`"},
		{"Hops", strconv.Itoa(summary.Hops)},
		{"Total Neighbors", strconv.Itoa(summary.TotalNeighbors)},
		{"Known Redirects", strconv.Itoa(summary.RedirectCount)},
	}
	if summary.Requests > 0 {
		rows = append(rows,
			[]string{"Requests", strconv.FormatInt(summary.Requests, 10)},
			[]string{"Retries", strconv.FormatInt(summary.Retries, 10)},
		)
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.TotalNeighbors > 0 {
		w.writePieChart(md, summary)
	}
}

// writePieChart writes a mermaid pie chart of layer sizes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Neighbors per Hop"),
		piechart.WithShowData(true),
	)
	for hop := 1; hop < len(summary.LayerSizes); hop++ {
		if summary.LayerSizes[hop] > 0 {
			chart.LabelAndIntValue(strconv.Itoa(hop)+"-Hop", uint64(summary.LayerSizes[hop]))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeLayers(md *markdown.Markdown, graph *model.HopGraph, names *namer) {
	for _, layer := range graph.Neighbors() {
		md.H2(strconv.Itoa(layer.Hop) + "-Hop Neighbors (" + strconv.Itoa(len(layer.Members)) + ")")
		md.PlainText("")

		if len(layer.Members) == 0 {
			md.PlainText("No new articles at this distance.")
			md.PlainText("")
			continue
		}

		items := make([]string, 0, len(layer.Members))
		for _, e := range names.members(layer.Members) {
			items = append(items, e.name)
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeRedirects(md *markdown.Markdown, graph *model.HopGraph, names *namer) {
	md.H2("Known Redirects (" + strconv.Itoa(len(graph.Redirects)) + ")")
	md.PlainText("")

	if len(graph.Redirects) == 0 {
		md.Note("No redirects were observed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(graph.Redirects))
	for _, r := range names.redirects(graph.Redirects) {
		rows = append(rows, []string{r.source.name, r.target.name})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Requested", "Served"},
		Rows:   rows,
	})
	md.PlainText("")
}
