package dispatch

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrSlotTaken is returned by Put for an index that already holds a result.
var ErrSlotTaken = errors.New("result already stored")

// Result is the outcome of translating one chunk.
type Result struct {
	Index      int
	Original   string
	Translated string
}

// Table is an index-addressed set of results. Each slot is written at most
// once; all writes go through one mutex and are counted on a Tracker.
type Table struct {
	mu      sync.Mutex
	slots   []*Result
	tracker *Tracker
}

// NewTable returns an empty table with n slots.
func NewTable(n int) *Table {
	return newTable(n, NewTracker(n))
}

func newTable(n int, tracker *Tracker) *Table {
	return &Table{slots: make([]*Result, n), tracker: tracker}
}

// Put stores r in slot r.Index and increments the completed counter in the
// same critical section. It returns the new completed count.
func (t *Table) Put(r Result) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r.Index < 0 || r.Index >= len(t.slots) {
		return 0, fmt.Errorf("result index %d out of range [0, %d)", r.Index, len(t.slots))
	}
	if t.slots[r.Index] != nil {
		return 0, fmt.Errorf("slot %d: %w", r.Index, ErrSlotTaken)
	}
	t.slots[r.Index] = &r
	return t.tracker.inc(), nil
}

// Get returns the result stored at index i.
func (t *Table) Get(i int) (Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i < 0 || i >= len(t.slots) || t.slots[i] == nil {
		return Result{}, false
	}
	return *t.slots[i], true
}

// Len returns the number of slots.
func (t *Table) Len() int {
	return len(t.slots)
}

// Completed returns the number of stored results without locking.
func (t *Table) Completed() int64 {
	return t.tracker.Completed()
}

// Complete reports whether every slot holds a result.
func (t *Table) Complete() bool {
	return int(t.Completed()) == len(t.slots)
}

// Tracker counts completed chunks. Completed is safe to call from any
// goroutine while a run is in progress.
type Tracker struct {
	completed atomic.Int64
	total     atomic.Int64
}

// NewTracker returns a tracker expecting total chunks.
func NewTracker(total int) *Tracker {
	t := &Tracker{}
	t.total.Store(int64(total))
	return t
}

// Completed returns the number of chunks translated so far.
func (t *Tracker) Completed() int64 {
	return t.completed.Load()
}

// Total returns the number of chunks in the run.
func (t *Tracker) Total() int64 {
	return t.total.Load()
}

func (t *Tracker) inc() int64 {
	return t.completed.Add(1)
}

func (t *Tracker) reset(total int) {
	t.completed.Store(0)
	t.total.Store(int64(total))
}
