package util

import (
	"net/url"
	"strings"
)

// JoinURL appends path segments to a base URL verbatim, the same way string
// interpolation would. Segments are trusted to already be valid URL path
// segments, they are not escaped. Any query on the base survives.
//
// Examples:
//   - JoinURL("https://host/api/users", "42") -> "https://host/api/users/42"
//   - JoinURL("https://host/api/applications/", "7", "notes") -> "https://host/api/applications/7/notes"
func JoinURL(baseURL string, segments ...string) (*url.URL, error) {
	base, query, _ := strings.Cut(baseURL, "?")

	var b strings.Builder
	b.Grow(len(baseURL) + 16*len(segments))
	b.WriteString(strings.TrimRight(base, "/"))
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}

	return url.Parse(b.String())
}
