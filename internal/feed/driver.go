package feed

import (
	"sync"

	"github.com/duskline/replfeed/internal/console"
	"github.com/duskline/replfeed/internal/lang"
)

// Driver drains the pending queue into the console, one statement at a
// time. It is triggered from two places: Enqueue, when the console is idle,
// and the console's ready notification after an execution finishes. A
// single-owner lock plus a draining flag serialize the two triggers so that
// drains never interleave: an Enqueue arriving mid-drain only appends to the
// queue, and the in-progress drain picks the new item up.
type Driver struct {
	mu       sync.Mutex
	queue    Queue
	draining bool
	wake     bool // a ready signal arrived while a drain was in progress

	console  console.Console
	language lang.Language
	versions lang.VersionResolver
	newline  string

	unsubscribe func()
}

// NewDriver creates a Driver bound to c. It registers the one ready
// observer the driver ever holds; Close removes it.
func NewDriver(c console.Console, lg lang.Language, vr lang.VersionResolver, newline string) *Driver {
	if newline == "" {
		newline = "\n"
	}
	d := &Driver{
		console:  c,
		language: lg,
		versions: vr,
		newline:  newline,
	}
	d.unsubscribe = c.OnReady(d.pump)
	return d
}

// Close removes the driver's ready observer. Pending queue items are
// abandoned.
func (d *Driver) Close() {
	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
}

// Enqueue appends a chunk to the pending queue and, when the console is
// idle, drains the queue. When the console is busy the chunk waits;
// draining resumes on the console's next ready signal.
func (d *Driver) Enqueue(text string) {
	d.mu.Lock()
	d.queue.PushBack(text)
	d.mu.Unlock()
	if !d.console.Busy() {
		d.pump()
	}
}

// Pending returns the number of queued chunks.
func (d *Driver) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.Len()
}

// pump runs the drain loop unless a drain already owns the queue, in which
// case it leaves a wake mark so the owner re-checks before finishing. This
// closes the race where a ready signal lands between an execution trigger
// and the drain's exit.
func (d *Driver) pump() {
	d.mu.Lock()
	if d.draining {
		d.wake = true
		d.mu.Unlock()
		return
	}
	d.draining = true
	d.mu.Unlock()

	d.drain()

	d.mu.Lock()
	d.draining = false
	again := d.wake && !d.console.Busy() && d.queue.Len() > 0
	d.wake = false
	d.mu.Unlock()

	if again {
		d.pump()
	}
}

// drain consumes queued chunks until the queue empties or an execution is
// triggered. Triggering an execution ends the drain immediately; the loop
// is re-entered when the console signals ready.
func (d *Driver) drain() {
	for {
		if d.console.Busy() {
			return
		}

		d.mu.Lock()
		chunk, ok := d.queue.PopFront()
		d.mu.Unlock()
		if !ok {
			return
		}

		// Insertion appends at the caret, which may have drifted.
		d.console.MoveCaretToEnd()

		version, ok := d.versions.Resolve()
		if !ok {
			// No analysis context: drop the chunk and move on.
			continue
		}
		sp, ok := lang.NewSplitter(d.language, version)
		if !ok {
			continue
		}

		fragments := Recombine(d.console.Buffer(), chunk, sp, d.newline)

		// Step over the groups the buffer already holds in full. Requeueing
		// them instead would reproduce the identical queue state forever on
		// a console that defers execution.
		next := 0
		for next < len(fragments) && fragments[next].Lines == 0 {
			next++
		}
		if next == len(fragments) {
			continue
		}

		first := fragments[next]
		var rest []string
		for _, f := range fragments[next+1:] {
			if f.Lines == 0 {
				continue
			}
			// Re-terminate every line so a fragment ending in a blank line
			// survives the trip through the queue.
			rest = append(rest, f.Text+d.newline)
		}
		if len(rest) > 0 {
			// Later statements from this chunk outrank every queued chunk.
			d.mu.Lock()
			d.queue.PushFront(rest...)
			d.mu.Unlock()
		}

		d.console.InsertText(first.Text)
		if d.console.CanExecute(d.console.Buffer()) {
			d.console.Execute()
			return
		}
		// Incomplete so far: separate from the next fragment and keep going.
		d.console.InsertText(d.newline)
	}
}
