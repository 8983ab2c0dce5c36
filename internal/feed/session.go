package feed

import (
	"strings"
	"sync"

	"github.com/duskline/replfeed/internal/console"
	"github.com/duskline/replfeed/internal/lang"
	"github.com/duskline/replfeed/internal/source"
)

// Session binds one source document to one console through a Driver and
// exposes the user-facing feed operations. It owns the end-of-input latch:
// once the caret cannot advance past the last statement, further SendLine
// calls are no-ops until the caret moves.
type Session struct {
	mu      sync.Mutex
	doc     *source.Document
	driver  *Driver
	newline string
	atEnd   bool
}

// NewSession wires a document to a console for the given language. The
// returned session owns the driver; Close releases it.
func NewSession(doc *source.Document, c console.Console, lg lang.Language, vr lang.VersionResolver, newline string) *Session {
	if newline == "" {
		newline = "\n"
	}
	return &Session{
		doc:     doc,
		driver:  NewDriver(c, lg, vr, newline),
		newline: newline,
	}
}

// Close releases the session's console observer.
func (s *Session) Close() {
	s.driver.Close()
}

// Document returns the session's source document. Callers must not mutate
// it concurrently with feed operations.
func (s *Session) Document() *source.Document {
	return s.doc
}

// Driver returns the session's submission driver.
func (s *Session) Driver() *Driver {
	return s.driver
}

// Load replaces the document content and re-arms the end-of-input latch.
func (s *Session) Load(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Reset(text)
	s.atEnd = false
}

// AtEnd reports whether the session has fed its last line.
func (s *Session) AtEnd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.atEnd
}

// CaretMoved repositions the caret and clears the end-of-input latch. Hosts
// call this from their caret-position observers.
func (s *Session) CaretMoved(p source.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.SetCaret(p)
	s.atEnd = false
}

// SendLine feeds the caret's line to the console and advances the caret to
// the next statement line. Marker lines are skipped without feeding. It
// returns false when the latch is set and nothing was done.
func (s *Session) SendLine() bool {
	s.mu.Lock()
	if s.atEnd {
		s.mu.Unlock()
		return false
	}
	line := s.doc.CurrentLineText()
	send := !s.doc.IsCellMarkerLine(line)
	if !s.doc.AdvanceCaret() {
		s.atEnd = true
	}
	s.mu.Unlock()

	if send {
		s.driver.Enqueue(line + s.newline)
	}
	return true
}

// SendCell feeds the full text of the cell containing the caret and moves
// the caret to the next cell. A whitespace-only cell advances without
// feeding anything. Like SendLine, it returns false only when the
// end-of-input latch blocked the call.
func (s *Session) SendCell() bool {
	s.mu.Lock()
	if s.atEnd {
		s.mu.Unlock()
		return false
	}
	text := s.doc.CellText()
	if !s.doc.AdvanceToNextCell() {
		s.atEnd = true
	}
	s.mu.Unlock()

	if strings.TrimSpace(text) != "" {
		s.driver.Enqueue(text + s.newline)
	}
	return true
}

// SendSelection feeds the active selection. It returns false, feeding
// nothing, when no selection is active or the selection is blank. The caret
// moves past the selection afterwards.
func (s *Session) SendSelection() bool {
	s.mu.Lock()
	text := s.doc.SelectionText()
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return false
	}
	end := s.doc.SelectionEnd()
	s.doc.ClearSelection()
	s.doc.SetCaret(end)
	if !s.doc.AdvanceCaret() {
		s.atEnd = true
	} else {
		s.atEnd = false
	}
	s.mu.Unlock()

	s.driver.Enqueue(text + s.newline)
	return true
}

// Send feeds the active selection when one exists, the caret's line
// otherwise.
func (s *Session) Send() bool {
	s.mu.Lock()
	selected := s.doc.HasSelection()
	s.mu.Unlock()
	if selected {
		return s.SendSelection()
	}
	return s.SendLine()
}
