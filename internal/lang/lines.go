package lang

import "strings"

// SplitLines splits text into physical lines, treating "\r\n", "\n", and "\r"
// as line boundaries. Terminators are not included in the returned lines, and
// a terminator at the very end of the text does not produce a trailing empty
// line. SplitLines("") returns nil.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// CountBreaks returns the number of line breaks in text. A "\r\n" pair counts
// as a single break.
func CountBreaks(text string) int {
	n := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			n++
		case '\r':
			n++
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		}
	}
	return n
}

// IsBlank reports whether line contains only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
