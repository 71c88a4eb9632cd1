// Package htmlsanitize cleans user-supplied rich text before it is stored.
//
// Project descriptions, submission comments, and review feedback arrive from
// the browser and are later rendered back to other users, so they pass
// through a UGC policy: basic formatting survives, scripts and event
// handlers do not.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize returns s with disallowed HTML removed. Safe formatting tags
// (p, strong, em, lists, links) are preserved.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// PlainText strips all HTML from s and trims surrounding whitespace.
// Used for single-line fields like titles where markup never belongs.
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
