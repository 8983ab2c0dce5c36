package console

import (
	"context"
	"strings"
	"sync"

	"github.com/duskline/replfeed/internal/lang"
)

// Buffered is an in-memory Console. Text accumulates in an input buffer at a
// caret; Execute snapshots and clears the buffer, hands the program to the
// Runner on its own goroutine, and notifies ready observers when the run
// completes. Completeness checks delegate to the language splitter.
type Buffered struct {
	mu        sync.Mutex
	buf       string
	caret     int
	busy      bool
	splitter  lang.Splitter
	runner    Runner
	observers []readyObserver
	nextID    int
	history   []Execution
}

type readyObserver struct {
	id int
	fn func()
}

// NewBuffered creates a console that judges completeness with sp and runs
// programs with r.
func NewBuffered(sp lang.Splitter, r Runner) *Buffered {
	return &Buffered{splitter: sp, runner: r}
}

var _ Console = (*Buffered)(nil)

// InsertText inserts text at the caret and advances the caret past it.
func (c *Buffered) InsertText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf = c.buf[:c.caret] + text + c.buf[c.caret:]
	c.caret += len(text)
}

// Buffer returns the current unexecuted input.
func (c *Buffered) Buffer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf
}

// MoveCaretToEnd positions the caret after the buffered text.
func (c *Buffered) MoveCaretToEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.caret = len(c.buf)
}

// SetCaret positions the caret at a byte offset, clamped into the buffer.
// Exists so hosts can model caret drift; the driver always repositions to
// the end before inserting.
func (c *Buffered) SetCaret(offset int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	if offset > len(c.buf) {
		offset = len(c.buf)
	}
	c.caret = offset
}

// CanExecute reports whether text is a complete program.
func (c *Buffered) CanExecute(text string) bool {
	return c.splitter.Complete(strings.TrimRight(text, "\r\n"))
}

// Busy reports whether an execution is in flight.
func (c *Buffered) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Execute consumes the buffer and runs it asynchronously. It is a no-op
// when the console is already busy or the buffer is empty.
func (c *Buffered) Execute() {
	c.mu.Lock()
	if c.busy || c.buf == "" {
		c.mu.Unlock()
		return
	}
	program := c.buf
	c.buf = ""
	c.caret = 0
	c.busy = true
	c.mu.Unlock()

	go func() {
		out, err := c.runner.Run(context.Background(), program)

		c.mu.Lock()
		c.history = append(c.history, Execution{Program: program, Output: out, Err: err})
		c.busy = false
		obs := make([]readyObserver, len(c.observers))
		copy(obs, c.observers)
		c.mu.Unlock()

		for _, o := range obs {
			o.fn()
		}
	}()
}

// OnReady registers fn for ready notifications, in registration order.
func (c *Buffered) OnReady(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.observers = append(c.observers, readyObserver{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, o := range c.observers {
			if o.id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// History returns a copy of all completed executions, oldest first.
func (c *Buffered) History() []Execution {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Execution, len(c.history))
	copy(out, c.history)
	return out
}

// Clear discards the buffered input and execution history.
func (c *Buffered) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf = ""
	c.caret = 0
	c.history = nil
}

// WaitIdle blocks until the console has no execution in flight, or until
// ctx is done.
func (c *Buffered) WaitIdle(ctx context.Context) error {
	wake := make(chan struct{}, 1)
	unsub := c.OnReady(func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	defer unsub()

	for {
		if !c.Busy() {
			return nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
