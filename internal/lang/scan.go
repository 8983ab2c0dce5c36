package lang

import "strings"

// lineInfo captures the lexical state of one physical line as seen by the
// Python scanner. Fields describing state "after" the line account for
// bracket and string context carried over from preceding lines.
type lineInfo struct {
	text    string
	blank   bool
	indent  string // leading whitespace, verbatim
	keyword string // first identifier-like token, "" if none

	// continuedBefore is true when this line cannot start a new logical
	// line: the previous line left an open bracket, an open triple-quoted
	// string, or a trailing backslash.
	continuedBefore bool

	// depthAfter is the bracket nesting depth at the end of the line.
	depthAfter int

	// stringAfter is the open triple-quote delimiter at the end of the
	// line, or "" when no string spans into the next line.
	stringAfter string

	// backslash is true when the line ends with a backslash continuation
	// outside any string.
	backslash bool
}

// pyScanner walks physical lines in order, tracking bracket depth and
// triple-quoted string state across lines. It is string- and comment-aware
// but deliberately not a full tokenizer: it only knows enough to decide
// where logical lines begin.
type pyScanner struct {
	depth     int
	openQuote string // open triple-quote delimiter, "" when outside strings
	backslash bool   // previous line ended with a backslash continuation
}

// scanLine consumes one physical line and returns its lexical description.
func (s *pyScanner) scanLine(text string) lineInfo {
	info := lineInfo{
		text:            text,
		continuedBefore: s.depth > 0 || s.openQuote != "" || s.backslash,
	}
	info.indent = text[:len(text)-len(strings.TrimLeft(text, " \t"))]
	rest := text[len(info.indent):]
	info.blank = rest == "" || (s.openQuote == "" && strings.TrimSpace(rest) == "")
	if s.openQuote == "" && !info.blank {
		info.keyword = leadingWord(rest)
	}

	i := 0
	for i < len(text) {
		if s.openQuote != "" {
			// Inside a triple-quoted string: look for the closing delimiter.
			end := strings.Index(text[i:], s.openQuote)
			if end < 0 {
				i = len(text)
				break
			}
			i += end + len(s.openQuote)
			s.openQuote = ""
			continue
		}

		c := text[i]
		switch c {
		case '#':
			// Comment runs to the end of the line.
			i = len(text)
		case '(', '[', '{':
			s.depth++
			i++
		case ')', ']', '}':
			if s.depth > 0 {
				s.depth--
			}
			i++
		case '\'', '"':
			i = s.scanString(text, i)
		case '\\':
			if i == len(text)-1 {
				info.backslash = true
			}
			i += 2
		default:
			i++
		}
	}

	info.depthAfter = s.depth
	info.stringAfter = s.openQuote
	s.backslash = info.backslash
	return info
}

// scanString consumes a string literal starting at the quote character at
// text[i] and returns the index just past it. Triple-quoted strings that do
// not close on this line set the scanner's openQuote state.
func (s *pyScanner) scanString(text string, i int) int {
	q := text[i]
	triple := string(q) + string(q) + string(q)
	if strings.HasPrefix(text[i:], triple) {
		body := i + 3
		end := strings.Index(text[body:], triple)
		if end < 0 {
			s.openQuote = triple
			return len(text)
		}
		return body + end + 3
	}

	// Single-quoted string: runs to the matching quote or, for unterminated
	// literals, to the end of the line (a syntax error, but scanning is
	// total).
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return len(text)
}

// leadingWord returns the identifier-like token at the start of s, or "".
func leadingWord(s string) string {
	end := 0
	for end < len(s) {
		c := s[end]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (end > 0 && c >= '0' && c <= '9') {
			end++
			continue
		}
		break
	}
	return s[:end]
}
