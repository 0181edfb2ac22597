package util

import "strings"

// NormalizeKey lowercases and trims a string for use as a consistent lookup
// key. Config keys and facility names both go through it.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SplitList splits a comma or whitespace separated list, dropping empty
// entries.
func SplitList(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
