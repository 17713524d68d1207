package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generate lower-cases s, turns every run of non-alphanumerics into a single
// hyphen and trims hyphens from both ends. "Hello, World!" becomes "hello-world".
func Generate(s string) string {
	out := nonAlnum.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(out, "-")
}
