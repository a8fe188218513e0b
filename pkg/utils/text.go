package utils

// TruncateRunes caps s at max runes. Used to keep generated text inside the
// store's column limits; oversized values are cut, not rejected.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// TruncateWithEllipsis caps s at max runes, replacing the tail with "..."
// when it has to cut.
func TruncateWithEllipsis(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
