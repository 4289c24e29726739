package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// CollapseSpace trims the input and collapses internal whitespace runs to a
// single space. Case is preserved.
func CollapseSpace(s string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}
