// Package console defines the interactive console the submission core
// drives, together with an in-memory implementation whose executions are
// delegated to a pluggable Runner.
package console

import "context"

// Console is the execution target of the submission driver. Implementations
// own the not-yet-executed input buffer; the core only inserts text and asks
// questions about it.
//
// All methods are synchronous fire-and-return calls except execution, which
// proceeds asynchronously: Execute returns immediately and observers
// registered through OnReady are notified when the console can accept input
// again.
type Console interface {
	// InsertText inserts text into the input buffer at the caret.
	InsertText(text string)

	// Buffer returns the full text of the current, unexecuted input.
	Buffer() string

	// MoveCaretToEnd repositions the input caret after any buffered text.
	// Insertion appends at the caret, which may have drifted.
	MoveCaretToEnd()

	// CanExecute reports whether text forms a complete executable program.
	CanExecute(text string) bool

	// Execute runs the buffered input. The buffer is consumed; the console
	// is busy until the run finishes.
	Execute()

	// Busy reports whether an execution is in flight.
	Busy() bool

	// OnReady registers fn to be called each time the console finishes an
	// execution and is ready for more input. The returned function removes
	// the registration.
	OnReady(fn func()) (unsubscribe func())
}

// Runner executes one complete program and returns its combined output.
type Runner interface {
	Run(ctx context.Context, program string) (string, error)
}

// Execution records one completed console run.
type Execution struct {
	Program string
	Output  string
	Err     error
}
