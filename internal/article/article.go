package article

import (
	"slices"
	"strings"
)

// Article is a parsed article page.
type Article struct {
	// endpoint is the endpoint the page was served under.
	endpoint string

	// title is the text of the page heading.
	title string

	// links holds outbound article endpoints, fragment-stripped and unique.
	links map[string]struct{}

	// lead is the plain text of the paragraphs before the first section heading.
	lead string
}

// New builds an Article from already extracted parts. It is used by tests
// and by callers that obtain article data from somewhere other than HTML.
func New(endpoint, title string, links []string, lead string) *Article {
	set := make(map[string]struct{}, len(links))
	for _, l := range links {
		set[l] = struct{}{}
	}
	return &Article{endpoint: endpoint, title: title, links: set, lead: lead}
}

// Endpoint returns the endpoint the page was served under.
func (a *Article) Endpoint() string {
	return a.endpoint
}

// Title returns the article heading.
func (a *Article) Title() string {
	return a.title
}

// Lead returns the lead text.
func (a *Article) Lead() string {
	return a.lead
}

// Links returns the outbound article endpoints in sorted order.
func (a *Article) Links() []string {
	out := make([]string, 0, len(a.links))
	for l := range a.links {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// LinkCount returns the number of unique outbound links.
func (a *Article) LinkCount() int {
	return len(a.links)
}

// HasLink reports whether the article links to endpoint.
func (a *Article) HasLink(endpoint string) bool {
	_, ok := a.links[endpoint]
	return ok
}

// FileName returns a file name derived from the title with the given
// extension. Path separators in the title are replaced by "_".
func (a *Article) FileName(ext string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\':
			return '_'
		}
		return r
	}, a.title)
	return name + ext
}
