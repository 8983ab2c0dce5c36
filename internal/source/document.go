// Package source implements the source locator: an in-memory view of the
// document being fed to the console, with a caret, an optional selection,
// and cell-marker navigation. The locator only reads and positions; the
// submission core never touches the caret itself.
package source

import (
	"strings"

	"github.com/duskline/replfeed/internal/lang"
)

// DefaultCellMarker delimits cells the way notebook-style editors do.
const DefaultCellMarker = "# %%"

// Position addresses a point in the document. Line is zero-based; Column is
// a zero-based byte offset within the line.
type Position struct {
	Line   int
	Column int
}

// Document is an in-memory source document. It is not safe for concurrent
// use; the owning session serializes access.
type Document struct {
	lines  []string
	caret  Position
	marker string

	selStart Position
	selEnd   Position
	selected bool
}

// NewDocument builds a Document from text, splitting on any of the three
// newline conventions. The caret starts at the first line.
func NewDocument(text string) *Document {
	lines := lang.SplitLines(text)
	if lines == nil {
		lines = []string{""}
	}
	return &Document{lines: lines, marker: DefaultCellMarker}
}

// Reset replaces the document content, clears the selection, and moves the
// caret back to the first line.
func (d *Document) Reset(text string) {
	lines := lang.SplitLines(text)
	if lines == nil {
		lines = []string{""}
	}
	d.lines = lines
	d.caret = Position{}
	d.selected = false
}

// SetCellMarker overrides the cell marker prefix.
func (d *Document) SetCellMarker(marker string) {
	if marker != "" {
		d.marker = marker
	}
}

// LineCount returns the number of physical lines.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the text of line i, or "" when out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Caret returns the current caret position.
func (d *Document) Caret() Position { return d.caret }

// SetCaret moves the caret, clamping it into the document.
func (d *Document) SetCaret(p Position) {
	d.caret = d.clamp(p)
}

func (d *Document) clamp(p Position) Position {
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Line >= len(d.lines) {
		p.Line = len(d.lines) - 1
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if max := len(d.lines[p.Line]); p.Column > max {
		p.Column = max
	}
	return p
}

// CurrentLineText returns the text of the caret's line.
func (d *Document) CurrentLineText() string {
	return d.lines[d.caret.Line]
}

// IsCellMarkerLine reports whether line begins a cell.
func (d *Document) IsCellMarkerLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), d.marker)
}

// Select marks the region between start and end (inclusive of start, and of
// end up to end.Column) as the active selection.
func (d *Document) Select(start, end Position) {
	start, end = d.clamp(start), d.clamp(end)
	if end.Line < start.Line || (end.Line == start.Line && end.Column < start.Column) {
		start, end = end, start
	}
	d.selStart, d.selEnd, d.selected = start, end, true
}

// ClearSelection drops the active selection.
func (d *Document) ClearSelection() { d.selected = false }

// HasSelection reports whether a selection is active.
func (d *Document) HasSelection() bool { return d.selected }

// SelectionEnd returns the end position of the active selection.
func (d *Document) SelectionEnd() Position { return d.selEnd }

// SelectionText returns the literal text of the active selection, or ""
// when there is none. Lines are joined with "\n".
func (d *Document) SelectionText() string {
	if !d.selected {
		return ""
	}
	if d.selStart.Line == d.selEnd.Line {
		return d.lines[d.selStart.Line][d.selStart.Column:d.selEnd.Column]
	}
	parts := make([]string, 0, d.selEnd.Line-d.selStart.Line+1)
	parts = append(parts, d.lines[d.selStart.Line][d.selStart.Column:])
	for i := d.selStart.Line + 1; i < d.selEnd.Line; i++ {
		parts = append(parts, d.lines[i])
	}
	parts = append(parts, d.lines[d.selEnd.Line][:d.selEnd.Column])
	return strings.Join(parts, "\n")
}

// CellText returns the text of the cell containing the caret: the lines
// between the nearest marker at or above the caret and the next marker
// below, with the marker lines themselves excluded. In a document without
// markers the whole document is one cell.
func (d *Document) CellText() string {
	start := 0
	for i := d.caret.Line; i >= 0; i-- {
		if d.IsCellMarkerLine(d.lines[i]) {
			start = i + 1
			break
		}
	}
	end := len(d.lines)
	for i := d.caret.Line + 1; i < len(d.lines); i++ {
		if d.IsCellMarkerLine(d.lines[i]) {
			end = i
			break
		}
	}
	if start >= end {
		return ""
	}
	return strings.Join(d.lines[start:end], "\n")
}

// AdvanceCaret moves the caret to the next non-blank, non-marker line below
// it. It returns false, leaving the caret in place, when no such line
// exists; the caller records that input is exhausted.
func (d *Document) AdvanceCaret() bool {
	for i := d.caret.Line + 1; i < len(d.lines); i++ {
		if lang.IsBlank(d.lines[i]) || d.IsCellMarkerLine(d.lines[i]) {
			continue
		}
		d.caret = Position{Line: i}
		return true
	}
	return false
}

// AdvanceToNextCell moves the caret to the first line of the cell after the
// one containing it. It returns false when the caret is already in the last
// cell.
func (d *Document) AdvanceToNextCell() bool {
	for i := d.caret.Line + 1; i < len(d.lines); i++ {
		if d.IsCellMarkerLine(d.lines[i]) {
			if i+1 < len(d.lines) {
				d.caret = Position{Line: i + 1}
				return true
			}
			return false
		}
	}
	return false
}
