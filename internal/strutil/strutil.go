package strutil

import "unicode/utf8"

// TruncateUTF8 cuts s down to at most maxBytes bytes without splitting a
// multi-byte character. Decodes rune by rune so the cut always lands on a
// rune boundary.
func TruncateUTF8(s string, maxBytes int) string {
	if maxBytes <= 0 {
		return ""
	}
	if len(s) <= maxBytes {
		return s
	}
	end := 0
	for end < maxBytes {
		_, size := utf8.DecodeRuneInString(s[end:])
		if size == 0 || end+size > maxBytes {
			break
		}
		end += size
	}
	return s[:end]
}

// Ellipsize truncates s to maxBytes and marks the cut with a trailing
// ellipsis. Strings that already fit are returned unchanged.
func Ellipsize(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	const ellipsis = "..."
	if maxBytes <= len(ellipsis) {
		return TruncateUTF8(s, maxBytes)
	}
	return TruncateUTF8(s, maxBytes-len(ellipsis)) + ellipsis
}
