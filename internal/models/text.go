package models

import "strings"

func equalsFold(a, b string) bool {
	return strings.EqualFold(a, b)
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
