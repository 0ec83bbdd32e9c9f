// Package htmlsanitize cleans user-supplied text before it is stored.
//
// Event descriptions may carry limited formatting, so they go through a
// UGC policy. Free-text fields that end up in reports or SMS bodies
// (outreach details, feedback) must be plain text and go through
// PlainText, which strips markup entirely.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize removes unsafe HTML (scripts, event handlers, javascript:
// URLs) while keeping common formatting elements.
func Sanitize(s string) string {
	return ugcPolicy.Sanitize(s)
}

// PlainText strips all markup and trims the result.
func PlainText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
