package document

import "strings"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Sanitize collapses whitespace runs to a single space and trims the ends.
func Sanitize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Escape sanitizes s and replaces the five XML special characters with their named
// entities.
func Escape(s string) string {
	return escaper.Replace(Sanitize(s))
}
