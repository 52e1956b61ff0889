// Package names canonicalizes free-text restaurant and reviewer names so that
// independently scraped sources can be compared by simple string equality.
package names

import (
	"regexp"
	"strings"
)

// leadingArticle matches a leading "the" with optional whitespace before it.
var leadingArticle = regexp.MustCompile(`(?i)^\s*the\s+`)

// Normalize produces the canonical comparison key for a name. The same
// normalization must be applied to both the search-input name and the
// extracted name before they are compared. Normalize is pure and idempotent.
func Normalize(name string) string {
	s := strings.ReplaceAll(name, "&amp;", "and")
	s = strings.ReplaceAll(s, "&", "and")

	// Strip repeatedly so normalization stays idempotent even for names that
	// begin with stacked articles.
	for {
		stripped := leadingArticle.ReplaceAllString(s, "")
		if stripped == s {
			break
		}

		s = stripped
	}

	return strings.ToLower(s)
}
