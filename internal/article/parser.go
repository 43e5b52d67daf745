package article

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/wikihop/internal/endpoint"
)

const (
	bodyParentID = "mw-content-text"
	headingID    = "firstHeading"

	// headingWrapperClass marks the div MediaWiki wraps section headings in.
	headingWrapperClass = "mw-heading"
)

// DefaultNamespacePrefix is the href prefix of article links.
const DefaultNamespacePrefix = "/wiki/"

// Parser turns article HTML into an Article.
type Parser struct {
	// prefix is the href prefix that marks an article link.
	prefix string
}

// NewParser creates a Parser that treats hrefs starting with prefix as
// article links. An empty prefix selects DefaultNamespacePrefix.
func NewParser(prefix string) *Parser {
	if prefix == "" {
		prefix = DefaultNamespacePrefix
	}
	return &Parser{prefix: prefix}
}

// Parse reads the HTML document that was served for endpoint served.
func (p *Parser) Parse(served string, content io.Reader) (*Article, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	parent := findByID(doc, bodyParentID)
	if parent == nil {
		return nil, ErrMissingBodyParent
	}
	body := firstElementChild(parent)
	if body == nil {
		return nil, ErrMissingBody
	}

	title, err := headingText(doc)
	if err != nil {
		return nil, err
	}

	a := &Article{
		endpoint: served,
		title:    title,
		links:    make(map[string]struct{}),
		lead:     leadText(body),
	}
	p.collectLinks(body, a.links)

	return a, nil
}

// collectLinks walks the body and records every article link.
func (p *Parser) collectLinks(n *html.Node, links map[string]struct{}) {
	if n.Type == html.ElementNode && n.Data == "a" {
		if target, ok := p.articleLink(getAttr(n, "href")); ok {
			links[target] = struct{}{}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.collectLinks(c, links)
	}
}

// articleLink extracts the endpoint from an href, or reports false when the
// href is not a link to another article.
func (p *Parser) articleLink(href string) (string, bool) {
	rest, ok := strings.CutPrefix(href, p.prefix)
	if !ok || endpoint.HasNamespace(rest) {
		return "", false
	}
	target := endpoint.StripFragment(rest)
	if target == "" {
		return "", false
	}
	return target, true
}

func headingText(doc *html.Node) (string, error) {
	heading := findByID(doc, headingID)
	if heading == nil {
		return "", ErrMissingHeading
	}
	// Current skins put the title in a span; older ones use bare text.
	source := heading
	if span := findElement(heading, "span"); span != nil {
		source = span
	}
	title := strings.TrimSpace(textContent(source))
	if title == "" {
		return "", ErrMissingHeading
	}
	return title, nil
}

// leadText joins the text of the body's <p> children up to the first
// section heading.
func leadText(body *html.Node) string {
	paragraphs := make([]string, 0)
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data == "h2" || (c.Data == "div" && hasClass(c, headingWrapperClass)) {
			break
		}
		if c.Data != "p" {
			continue
		}
		if text := strings.TrimSpace(textContent(c)); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && getAttr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// findElement returns the first descendant element named tag.
func findElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func firstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
