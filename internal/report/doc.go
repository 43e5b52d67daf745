// Package report renders a finished hop graph.
//
// This package contains writers for different output formats:
//   - TextWriter: the plain neighbor listing written to <Title>.txt
//   - MarkdownWriter: a document with per-hop sections and a redirect table
//   - JSONWriter: structured output for tool integration
//
// Endpoints are decoded into display names before they are written. An
// endpoint that fails to decode is logged and written in its raw form; a
// decode failure never aborts a report.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
