package domain

import "strings"

// Normalize lower-cases s, trims it and collapses internal whitespace
// runs to a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizePtr normalizes an optional value; nil yields "".
func NormalizePtr(s *string) string {
	if s == nil {
		return ""
	}
	return Normalize(*s)
}
