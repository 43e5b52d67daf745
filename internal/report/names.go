package report

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/nao1215/wikihop/internal/endpoint"
	"github.com/nao1215/wikihop/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// entry pairs a raw endpoint with its display name.
type entry struct {
	raw  string
	name string
}

// redirectEntry is a redirect with both sides decoded.
type redirectEntry struct {
	source entry
	target entry
}

// namer decodes endpoints into display names and orders them.
type namer struct {
	logger   *slog.Logger
	collator *collate.Collator
}

func newNamer(logger *slog.Logger) *namer {
	return &namer{
		logger:   logger,
		collator: collate.New(language.English),
	}
}

// display decodes raw into NFC text. On failure the raw endpoint is returned
// and the failure is logged.
func (n *namer) display(raw string) string {
	decoded, err := endpoint.Decode(raw)
	if err != nil {
		n.logger.Error("failed to decode endpoint", "endpoint", raw, "error", err)
		return raw
	}
	return norm.NFC.String(decoded)
}

func (n *namer) entry(raw string) entry {
	return entry{raw: raw, name: n.display(raw)}
}

func (n *namer) compare(a, b entry) int {
	if c := n.collator.CompareString(a.name, b.name); c != 0 {
		return c
	}
	return strings.Compare(a.raw, b.raw)
}

// members decodes and orders the members of a layer.
func (n *namer) members(raws []string) []entry {
	out := make([]entry, len(raws))
	for i, raw := range raws {
		out[i] = n.entry(raw)
	}
	slices.SortFunc(out, n.compare)
	return out
}

// redirects decodes and orders redirects by source.
func (n *namer) redirects(rs []model.Redirect) []redirectEntry {
	out := make([]redirectEntry, len(rs))
	for i, r := range rs {
		out[i] = redirectEntry{source: n.entry(r.Source), target: n.entry(r.Target)}
	}
	slices.SortFunc(out, func(a, b redirectEntry) int {
		return n.compare(a.source, b.source)
	})
	return out
}
