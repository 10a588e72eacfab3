package store

import "strings"

// maxSegmentLength bounds sanitized path segments so arbitrary model or test
// names cannot exceed filesystem limits.
const maxSegmentLength = 96

// Sanitize converts an arbitrary name into a safe path segment: unsafe runes
// become dashes, repeated dashes collapse, and the result is length-bounded.
// An empty or fully-stripped name yields "unnamed".
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastDash := true
	for _, r := range name {
		if safeSegmentRune(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	segment := strings.Trim(b.String(), "-.")
	if len(segment) > maxSegmentLength {
		segment = strings.Trim(segment[:maxSegmentLength], "-.")
	}
	if segment == "" {
		return "unnamed"
	}
	return segment
}

// safeSegmentRune reports whether a rune may appear in a path segment as-is.
func safeSegmentRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '.':
		return true
	default:
		return false
	}
}
