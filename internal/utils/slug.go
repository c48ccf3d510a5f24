package utils

import (
	"strings"
	"unicode"
)

// Slugify converts a display name into a URL-safe handle: lower-case ASCII
// letters, digits, and single hyphens. Runs of other characters collapse into
// one hyphen; leading/trailing hyphens are trimmed.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
