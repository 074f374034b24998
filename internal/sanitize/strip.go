package sanitize

// StripTags removes script/style blocks (with their contents) and any other
// HTML tags. Used when storing merchant CSS; the strict CSS filter still runs
// on every render use.
func StripTags(s string) string {
	s = scriptBlockRe.ReplaceAllString(s, "")
	return htmlTagRe.ReplaceAllString(s, "")
}
