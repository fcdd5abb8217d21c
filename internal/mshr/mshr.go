// Package mshr implements the Core's miss-status holding register table:
// one entry per outstanding read address, coalescing multiple reads to
// the same address into a single in-flight memory request.
//
// The whole simulation is single-threaded and cooperative (spec.md §5), so
// unlike the teacher's mutex-guarded concurrent state this table needs no
// locking at all.
package mshr

import "github.com/ehrlich-b/go-oocsim/internal/constants"

// Entry tracks one outstanding read address.
type Entry struct {
	Addr     uint64
	Issued   bool
	IssuedAt constants.Cycle // cycle the first miss to this address was submitted
	Waiters  []int           // ROB slot indices waiting on this address
}

// Table is a map of outstanding-read-address to Entry. At most one Entry
// exists per address at any time; it is created on first miss and removed
// when the response is delivered.
type Table struct {
	entries map[uint64]*Entry
}

// New returns an empty MSHR table.
func New() *Table {
	return &Table{entries: make(map[uint64]*Entry)}
}

// GetOrCreate returns the existing entry for addr, or creates and returns
// a new one. The second return value reports whether it was newly
// created; the Core decides whether to submit a request from the entry's
// Issued flag instead.
func (t *Table) GetOrCreate(addr uint64) (*Entry, bool) {
	if e, ok := t.entries[addr]; ok {
		return e, false
	}
	e := &Entry{Addr: addr}
	t.entries[addr] = e
	return e, true
}

// Take removes and returns the entry for addr, reporting whether one
// existed. A response delivered for an address with no entry is an
// invariant violation the caller must treat as fatal.
func (t *Table) Take(addr uint64) (*Entry, bool) {
	e, ok := t.entries[addr]
	if ok {
		delete(t.entries, addr)
	}
	return e, ok
}

// Outstanding returns the number of distinct addresses with a live MSHR.
func (t *Table) Outstanding() int {
	return len(t.entries)
}
