// Package feed implements the incremental statement recombination and
// submission engine: a pending queue of raw text chunks, a pure recombiner
// that merges each chunk with the console's unexecuted input and re-splits
// it into statement-sized fragments, and a driver that submits fragments one
// at a time as the console becomes ready.
package feed

// Queue is a double-ended queue of pending text chunks. New chunks enter at
// the back; leftover fragments from a multi-statement split re-enter at the
// front so they are consumed before any later chunk. Queue is not
// concurrency-safe; the driver's lock guards it.
type Queue struct {
	items []string
}

// PushBack appends item at the tail.
func (q *Queue) PushBack(item string) {
	q.items = append(q.items, item)
}

// PushFront inserts items at the head, preserving their relative order.
func (q *Queue) PushFront(items ...string) {
	if len(items) == 0 {
		return
	}
	q.items = append(append(make([]string, 0, len(items)+len(q.items)), items...), q.items...)
}

// PopFront removes and returns the head item.
func (q *Queue) PopFront() (string, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	return len(q.items)
}
