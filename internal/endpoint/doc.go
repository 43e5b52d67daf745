// Package endpoint handles article endpoints: the path segment that follows
// the encyclopedia's article namespace prefix (for example "Go_(programming_language)"
// in "https://en.wikipedia.org/wiki/Go_(programming_language)").
//
// Endpoints are compared as exact strings. Fragment identifiers ("#History")
// never reach an Endpoint; StripFragment removes them at every boundary where
// raw links enter the program.
//
// Decode turns the percent-/underscore-encoded form into display text. It is
// used only for rendering and never for membership tests.
package endpoint
