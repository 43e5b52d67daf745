// Package article extracts the parts of an encyclopedia article page that
// the link calculator needs: its heading, the set of outbound article
// endpoints found in the content body, and the lead text.
//
// The page layout is expected to be MediaWiki's:
//
//	<h1 id="firstHeading"><span>Title</span></h1>
//	<div id="mw-content-text"><div class="mw-parser-output">...</div></div>
//
// Only anchors whose href starts with the article namespace prefix ("/wiki/")
// and whose remainder contains no namespace separator (":") count as
// outbound links. Fragments are stripped, so "Bar" and "Bar#History" are the
// same link.
package article
