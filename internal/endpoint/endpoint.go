package endpoint

import "strings"

// StripFragment removes a "#fragment" suffix.
func StripFragment(s string) string {
	before, _, _ := strings.Cut(s, "#")
	return before
}

// Normalize turns user input into an Endpoint. The input may be an endpoint,
// an article title with spaces, or a full article URL under baseURL.
func Normalize(input, baseURL string) string {
	s := strings.TrimSpace(input)
	if rest, ok := strings.CutPrefix(s, baseURL); ok {
		s = rest
	}
	s = strings.ReplaceAll(s, " ", "_")
	return StripFragment(s)
}

// HasNamespace reports whether the endpoint names a non-article namespace
// page such as "File:Logo.png" or "Help:Contents".
func HasNamespace(s string) bool {
	return strings.Contains(s, ":")
}
