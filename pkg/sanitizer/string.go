package sanitizer

import "strings"

// NormalizeName trims surrounding whitespace. Inner whitespace and letter case
// are kept, so a stored name matches the exact-match booking lookups.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
