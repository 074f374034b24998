// Package sanitize filters merchant-supplied stylesheet text before it is
// ever echoed into a page. The filter is allow-list based: anything that does
// not look like plain CSS is rejected outright.
package sanitize

import (
	"regexp"
	"strings"
)

// Substrings that disqualify a stylesheet, matched case-insensitively after
// HTML tags have been stripped.
var dangerousPatterns = []string{
	// JavaScript related
	"javascript:",
	"expression(",
	"eval(",
	"vbscript:",
	"mocha:",
	"livescript:",
	// Event handlers
	"onclick=",
	"onload=",
	"onerror=",
	"onmouseover=",
	"onfocus=",
	"onblur=",
	// Imports and bindings
	"@import",
	"behavior:",
	"-moz-binding:",
	"binding:",
	// Data URLs and other protocols
	"data:",
	"url(javascript:",
	"url(data:",
	"url(vbscript:",
	// Script tags
	"<script",
	"</script",
	"<style",
	"</style",
}

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	htmlTagRe     = regexp.MustCompile(`<[^>]*>`)
	allowedRe     = regexp.MustCompile(`^[a-zA-Z0-9\s.#\-_:;{}(),\[\]"%/*+>~=!@]*$`)
	structuralRe  = regexp.MustCompile(`[{;}]`)
)

// CSS returns the sanitized stylesheet, or an empty string when the input is
// rejected. It never fails and is safe on arbitrary input.
func CSS(raw string) string {
	// Drop script/style blocks with their contents, then any remaining tags.
	css := scriptBlockRe.ReplaceAllString(raw, "")
	css = htmlTagRe.ReplaceAllString(css, "")

	lower := strings.ToLower(css)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return ""
		}
	}

	if !allowedRe.MatchString(css) {
		return ""
	}

	// Must contain at least one structural character to look like CSS at all.
	if !structuralRe.MatchString(css) {
		return ""
	}

	if htmlTagRe.MatchString(css) {
		return ""
	}

	return css
}
