// Package textnorm holds the string normalization shared by search, skill
// aggregation and the store prefilters.
package textnorm

import (
	"regexp"
	"strings"
)

func Normalize(s string) string {
	return strings.ToLower(s)
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Contains reports whether field contains query as a literal,
// case-insensitive substring. query is expected to be normalized already.
func Contains(field, normalizedQuery string) bool {
	return strings.Contains(Normalize(field), normalizedQuery)
}

// EscapeForLiteralMatch quotes regex metacharacters so user input handed to a
// regex-capable store is matched literally.
func EscapeForLiteralMatch(s string) string {
	return regexp.QuoteMeta(s)
}
