// Package utils provides shared utilities for text, math, and logging.
package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Truncate returns s cut to maxLen runes, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}

// DisplayWidth returns the number of terminal columns s occupies. Wide and
// full-width runes count as two columns.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// PadRight pads s with spaces to cols terminal columns.
func PadRight(s string, cols int) string {
	if w := DisplayWidth(s); w < cols {
		return s + strings.Repeat(" ", cols-w)
	}
	return s
}
