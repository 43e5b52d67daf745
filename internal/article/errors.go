package article

import "errors"

// Structural parse errors. Any of them means the page is not an article.
var (
	// ErrMissingBodyParent is returned when no element has id "mw-content-text".
	ErrMissingBodyParent = errors.New("cannot find element with id mw-content-text")

	// ErrMissingBody is returned when the content container has no child element.
	ErrMissingBody = errors.New("content container has no body element")

	// ErrMissingHeading is returned when the page has no firstHeading element
	// or the heading has no text.
	ErrMissingHeading = errors.New("cannot find article heading")
)
