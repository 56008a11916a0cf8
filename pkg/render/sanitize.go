package render

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Schema copy arrives from a remote API and can contain arbitrary markup.
// Labels and choice bodies are reduced to plain text here and escaped once
// at output time, never trusted as HTML.
var strictPolicy = bluemonday.StrictPolicy()

func plainText(s string) string {
	// StrictPolicy escapes entities in its output; unescape so the value is
	// plain text and does not get double-escaped by the templates.
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
