package active

import (
	"fmt"
	"sort"
)

// Query tags used by the controller. Batch entries are numbered
// "batch #1", "batch #2", ... in round order.
const (
	TagInitialTrain = "initial training set"
	TagTestSet      = "test set"
)

// Query is a read-only snapshot of one open label request.
type Query struct {
	Tag     string
	Indices []int
}

type ledgerEntry struct {
	tag     string
	pending map[int]struct{}
}

// Ledger tracks outstanding label requests. Every pool index is pending
// in at most one entry; an owner index gives O(1) lookup and removal, so
// entries are never mutated while being scanned.
type Ledger struct {
	entries []*ledgerEntry
	owner   map[int]*ledgerEntry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{owner: make(map[int]*ledgerEntry)}
}

// Open adds a new entry with the given pending indices. An index that is
// already pending elsewhere indicates a broken bookkeeping invariant.
func (l *Ledger) Open(tag string, indices []int) {
	e := &ledgerEntry{tag: tag, pending: make(map[int]struct{}, len(indices))}
	for _, idx := range indices {
		if _, taken := l.owner[idx]; taken {
			panic(fmt.Sprintf("active: index %d already pending in another query", idx))
		}
		e.pending[idx] = struct{}{}
		l.owner[idx] = e
	}
	l.entries = append(l.entries, e)
}

// Empty reports whether no label requests are open.
func (l *Ledger) Empty() bool {
	return len(l.entries) == 0
}

// Owns reports whether idx is pending in any entry.
func (l *Ledger) Owns(idx int) bool {
	_, ok := l.owner[idx]
	return ok
}

// Resolve removes idx from its owning entry and returns that entry's tag.
// Emptied entries are pruned.
func (l *Ledger) Resolve(idx int) (string, bool) {
	e, ok := l.owner[idx]
	if !ok {
		return "", false
	}
	delete(e.pending, idx)
	delete(l.owner, idx)
	if len(e.pending) == 0 {
		l.prune(e)
	}
	return e.tag, true
}

// PendingFor returns the sorted pending indices of the entry with the
// given tag, or nil if no such entry is open.
func (l *Ledger) PendingFor(tag string) []int {
	for _, e := range l.entries {
		if e.tag == tag {
			return sortedKeys(e.pending)
		}
	}
	return nil
}

// Queries returns snapshots of all open entries in insertion order.
func (l *Ledger) Queries() []Query {
	out := make([]Query, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, Query{Tag: e.tag, Indices: sortedKeys(e.pending)})
	}
	return out
}

// PendingCount returns the total number of pending indices.
func (l *Ledger) PendingCount() int {
	return len(l.owner)
}

func (l *Ledger) prune(target *ledgerEntry) {
	for i, e := range l.entries {
		if e == target {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
