package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/wikihop/internal/model"
)

// JSONWriter outputs reports in JSON format.
// Every endpoint appears both raw and decoded.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Output is compact unless WithPrettyPrint is given.
func NewJSONWriter(output io.Writer, opts ...Option) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output, opts)}
}

// JSONReport is the document written by JSONWriter.Write.
type JSONReport struct {
	Origin       JSONEndpoint   `json:"origin"`
	Title        string         `json:"title"`
	Lead         string         `json:"lead,omitempty"`
	Layers       []JSONLayer    `json:"layers"`
	Redirects    []JSONRedirect `json:"redirects"`
	Summary      *model.Summary `json:"summary"`
	DateComputed time.Time      `json:"date_computed,omitzero"`
}

// JSONEndpoint is an endpoint with its display name.
type JSONEndpoint struct {
	Endpoint string `json:"endpoint"`
	Name     string `json:"name"`
}

// JSONLayer is one hop's members in display order.
type JSONLayer struct {
	Hop     int            `json:"hop"`
	Count   int            `json:"count"`
	Members []JSONEndpoint `json:"members"`
}

// JSONRedirect is one redirect with both sides decoded.
type JSONRedirect struct {
	Source JSONEndpoint `json:"source"`
	Target JSONEndpoint `json:"target"`
}

// Write outputs the full graph in JSON format.
func (w *JSONWriter) Write(graph *model.HopGraph) (int, error) {
	return w.writeJSON(w.build(graph))
}

// WriteSummary outputs only the summary in JSON format.
func (w *JSONWriter) WriteSummary(summary *model.Summary) (int, error) {
	return w.writeJSON(summary)
}

func (w *JSONWriter) build(graph *model.HopGraph) *JSONReport {
	names := w.names()
	doc := &JSONReport{
		Origin:       toJSONEndpoint(names.entry(graph.Origin)),
		Title:        graph.Title,
		Lead:         graph.Lead,
		Layers:       make([]JSONLayer, 0, len(graph.Layers)),
		Redirects:    make([]JSONRedirect, 0, len(graph.Redirects)),
		Summary:      graph.Summary(),
		DateComputed: graph.DateComputed,
	}

	for _, layer := range graph.Layers {
		members := make([]JSONEndpoint, 0, len(layer.Members))
		for _, e := range names.members(layer.Members) {
			members = append(members, toJSONEndpoint(e))
		}
		doc.Layers = append(doc.Layers, JSONLayer{Hop: layer.Hop, Count: len(members), Members: members})
	}
	for _, r := range names.redirects(graph.Redirects) {
		doc.Redirects = append(doc.Redirects, JSONRedirect{
			Source: toJSONEndpoint(r.source),
			Target: toJSONEndpoint(r.target),
		})
	}
	return doc
}

func toJSONEndpoint(e entry) JSONEndpoint {
	return JSONEndpoint{Endpoint: e.raw, Name: e.name}
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent != "" {
		data, err = json.MarshalIndent(v, "", w.indent)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal output.
	data = append(data, '\n')
	return w.output.Write(data)
}
