package feed

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskline/replfeed/internal/console"
	"github.com/duskline/replfeed/internal/lang"
)

// scriptConsole is a test double for console.Console with a controllable
// completeness judgment and manually finished executions.
type scriptConsole struct {
	mu        sync.Mutex
	buf       string
	caret     int
	busy      bool
	canExec   func(string) bool
	autoReady bool // finish executions synchronously
	observers []func()
	inserts   []string
	executed  []string
}

var _ console.Console = (*scriptConsole)(nil)

func newScriptConsole(canExec func(string) bool) *scriptConsole {
	return &scriptConsole{canExec: canExec}
}

// parseCanExec judges completeness the way the real console does.
func parseCanExec(t *testing.T) func(string) bool {
	t.Helper()
	sp := pySplitter(t)
	return func(text string) bool {
		return sp.Complete(strings.TrimRight(text, "\r\n"))
	}
}

func (c *scriptConsole) InsertText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf = c.buf[:c.caret] + text + c.buf[c.caret:]
	c.caret += len(text)
	c.inserts = append(c.inserts, text)
}

func (c *scriptConsole) Buffer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf
}

func (c *scriptConsole) MoveCaretToEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.caret = len(c.buf)
}

func (c *scriptConsole) CanExecute(text string) bool { return c.canExec(text) }

func (c *scriptConsole) Execute() {
	c.mu.Lock()
	c.executed = append(c.executed, c.buf)
	c.buf = ""
	c.caret = 0
	c.busy = true
	auto := c.autoReady
	c.mu.Unlock()
	if auto {
		c.FinishExecution()
	}
}

func (c *scriptConsole) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *scriptConsole) OnReady(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
	return func() {}
}

// FinishExecution simulates the console completing a run and signalling
// readiness.
func (c *scriptConsole) FinishExecution() {
	c.mu.Lock()
	c.busy = false
	obs := make([]func(), len(c.observers))
	copy(obs, c.observers)
	c.mu.Unlock()
	for _, fn := range obs {
		fn()
	}
}

func (c *scriptConsole) insertCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inserts)
}

func (c *scriptConsole) executions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.executed))
	copy(out, c.executed)
	return out
}

func newTestDriver(c console.Console) *Driver {
	return NewDriver(c, lang.LangPython, lang.StaticResolver{V: lang.Version{Major: 3, Minor: 12}}, "\n")
}

// ---------------------------------------------------------------------------
// End-to-end scenario: a compound statement fed line by line.
// ---------------------------------------------------------------------------

func TestDriver_CompoundStatementAcrossChunks(t *testing.T) {
	cons := newScriptConsole(nil)
	cons.canExec = parseCanExec(t)
	d := newTestDriver(cons)
	defer d.Close()

	d.Enqueue("if True:\n")
	assert.Empty(t, cons.executions(), "bare header must not execute")
	assert.Equal(t, "if True:\n", cons.Buffer())

	d.Enqueue("    print(1)\n")
	require.Equal(t, []string{"if True:\n    print(1)"}, cons.executions())
	assert.Equal(t, "", cons.Buffer())
}

// No double submission: every buffered line is delivered exactly once, with
// the console deferring execution until the full statement has arrived.
func TestDriver_NoDoubleSubmission(t *testing.T) {
	armed := false
	cons := newScriptConsole(func(string) bool { return armed })
	d := newTestDriver(cons)
	defer d.Close()

	d.Enqueue("if True:\n")
	d.Enqueue("    x = 1\n")

	assert.Equal(t, "if True:\n    x = 1\n", cons.Buffer())

	armed = true
	d.Enqueue("    y = 2\n")

	require.Equal(t, []string{"if True:\n    x = 1\n    y = 2"}, cons.executions())
	assert.Equal(t, "", cons.Buffer())
}

// Ordering under interleaving: chunk B enqueued while A's statements are
// still being worked through must execute after all of A.
func TestDriver_OrderingUnderInterleaving(t *testing.T) {
	cons := newScriptConsole(func(string) bool { return true })
	d := newTestDriver(cons)
	defer d.Close()

	d.Enqueue("s1 = 1\ns2 = 2\n")
	require.Equal(t, []string{"s1 = 1"}, cons.executions(), "driver stops after triggering execution")

	// B arrives while the console is still busy with S1.
	d.Enqueue("s3 = 3\n")
	assert.Equal(t, []string{"s1 = 1"}, cons.executions())

	cons.FinishExecution()
	assert.Equal(t, []string{"s1 = 1", "s2 = 2"}, cons.executions(), "A's leftover outranks B")

	cons.FinishExecution()
	assert.Equal(t, []string{"s1 = 1", "s2 = 2", "s3 = 3"}, cons.executions())

	cons.FinishExecution()
	assert.Equal(t, 0, d.Pending())
}

func TestDriver_SynchronousReadyChain(t *testing.T) {
	cons := newScriptConsole(func(string) bool { return true })
	cons.autoReady = true
	d := newTestDriver(cons)
	defer d.Close()

	d.Enqueue("a = 1\nb = 2\nc = 3\n")
	assert.Equal(t, []string{"a = 1", "b = 2", "c = 3"}, cons.executions())
	assert.Equal(t, 0, d.Pending())
}

func TestDriver_BusyConsoleDefersDraining(t *testing.T) {
	cons := newScriptConsole(func(string) bool { return true })
	cons.busy = true
	d := newTestDriver(cons)
	defer d.Close()

	d.Enqueue("x = 1\n")
	assert.Equal(t, 0, cons.insertCount())
	assert.Equal(t, 1, d.Pending())

	cons.FinishExecution()
	assert.Equal(t, []string{"x = 1"}, cons.executions())
	assert.Equal(t, 0, d.Pending())
}

func TestDriver_UnresolvableVersionDropsChunk(t *testing.T) {
	cons := newScriptConsole(func(string) bool { return true })
	noContext := lang.ResolverFunc(func() (lang.Version, bool) { return lang.Version{}, false })
	d := NewDriver(cons, lang.LangPython, noContext, "\n")
	defer d.Close()

	d.Enqueue("x = 1\n")

	assert.Equal(t, 0, cons.insertCount(), "chunk dropped silently")
	assert.Empty(t, cons.executions())
	assert.Equal(t, 0, d.Pending(), "queue keeps moving")
}

// Already-consumed content produces zero inserts. A blank line after a
// complete buffered statement is normalized away, so on a console that
// defers execution nothing is delivered at all.
func TestDriver_ConsumedChunkIsNoop(t *testing.T) {
	cons := newScriptConsole(func(string) bool { return false })
	cons.buf = "x = 1\n"
	cons.caret = len(cons.buf)
	d := newTestDriver(cons)
	defer d.Close()

	d.Enqueue("\n")

	assert.Equal(t, 0, cons.insertCount())
	assert.Empty(t, cons.executions())
	assert.Equal(t, "x = 1\n", cons.Buffer())
}

// A console that never judges its buffer executable still receives every
// statement of a multi-statement chunk, and Enqueue returns once the queue
// is drained instead of spinning on the already-delivered remainder.
func TestDriver_DeferringConsoleDrainsWholeChunk(t *testing.T) {
	cons := newScriptConsole(func(string) bool { return false })
	d := newTestDriver(cons)
	defer d.Close()

	d.Enqueue("a = 1\nb = 2\n")

	assert.Equal(t, "a = 1\nb = 2\n", cons.Buffer())
	assert.Empty(t, cons.executions())
	assert.Equal(t, 0, d.Pending())
}

// A blank line authored inside an open triple-quoted string is content and
// must survive into the executed program.
func TestDriver_BlankLineInsideOpenString(t *testing.T) {
	cons := newScriptConsole(parseCanExec(t))
	d := newTestDriver(cons)
	defer d.Close()

	d.Enqueue("s = \"\"\"a\n")
	d.Enqueue("\n")
	assert.Empty(t, cons.executions(), "string still open")
	assert.Equal(t, "s = \"\"\"a\n\n", cons.Buffer())

	d.Enqueue("b\"\"\"\n")
	require.Equal(t, []string{"s = \"\"\"a\n\nb\"\"\""}, cons.executions())
}

// Same for a blank line inside an open bracket construct.
func TestDriver_BlankLineInsideOpenBracket(t *testing.T) {
	cons := newScriptConsole(parseCanExec(t))
	d := newTestDriver(cons)
	defer d.Close()

	d.Enqueue("x = (1,\n")
	d.Enqueue("\n")
	d.Enqueue("2)\n")

	require.Equal(t, []string{"x = (1,\n\n2)"}, cons.executions())
}

// The driver repositions a drifted caret before inserting.
func TestDriver_RepositionsCaretBeforeInsert(t *testing.T) {
	cons := newScriptConsole(func(string) bool { return false })
	d := newTestDriver(cons)
	defer d.Close()

	d.Enqueue("x = (1,\n")
	cons.mu.Lock()
	cons.caret = 0 // caret drifts to the front
	cons.mu.Unlock()

	d.Enqueue("2,\n")
	assert.Equal(t, "x = (1,\n2,\n", cons.Buffer(), "insertion appends at the end, not the drifted caret")
}

func TestDriver_ConcurrentEnqueue(t *testing.T) {
	cons := newScriptConsole(func(string) bool { return true })
	cons.autoReady = true
	d := newTestDriver(cons)
	defer d.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				d.Enqueue("n = 1\n")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, len(cons.executions()))
	assert.Equal(t, 0, d.Pending())
}
