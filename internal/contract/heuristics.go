package contract

import "strings"

// Util classification is a substring match. Each stage applies it to different
// text (a path, a whole rename line, a tool column) and must keep doing so.

// IsUtilPath reports whether s mentions "util" or "helper", ignoring case.
func IsUtilPath(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "util") || strings.Contains(lower, "helper")
}

// IsTestPath reports whether s mentions "test", ignoring case.
func IsTestPath(s string) bool {
	return strings.Contains(strings.ToLower(s), "test")
}

// IsPromotionCandidate matches "util" ignoring case and "helper" case-sensitively.
func IsPromotionCandidate(line string) bool {
	return strings.Contains(strings.ToLower(line), "util") || strings.Contains(line, "helper")
}
