package active

import (
	"testing"
)

func TestLedgerResolveCommitsAndPrunes(t *testing.T) {
	l := NewLedger()
	l.Open(TagInitialTrain, []int{1, 2, 3})
	l.Open(TagTestSet, []int{4, 5})

	if l.Empty() {
		t.Fatal("ledger should have open entries")
	}
	if got := l.PendingCount(); got != 5 {
		t.Fatalf("PendingCount() = %d, want 5", got)
	}
	if !l.Owns(2) || l.Owns(9) {
		t.Fatal("ownership lookup wrong")
	}

	tag, ok := l.Resolve(4)
	if !ok || tag != TagTestSet {
		t.Fatalf("Resolve(4) = (%q, %v), want (%q, true)", tag, ok, TagTestSet)
	}
	if l.Owns(4) {
		t.Fatal("resolved index must no longer be owned")
	}

	// Draining an entry removes it entirely.
	l.Resolve(5)
	queries := l.Queries()
	if len(queries) != 1 || queries[0].Tag != TagInitialTrain {
		t.Fatalf("expected only the train entry to remain, got %+v", queries)
	}

	l.Resolve(1)
	l.Resolve(2)
	l.Resolve(3)
	if !l.Empty() {
		t.Fatal("ledger should be empty after resolving everything")
	}
}

func TestLedgerResolveUnknownIndex(t *testing.T) {
	l := NewLedger()
	l.Open("batch #1", []int{7})

	if _, ok := l.Resolve(8); ok {
		t.Fatal("Resolve must report false for indices not pending anywhere")
	}
	if got := l.PendingCount(); got != 1 {
		t.Fatalf("PendingCount() = %d, want 1", got)
	}
}

func TestLedgerOpenOwnedIndexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("opening an entry for an already-pending index must panic")
		}
	}()
	l := NewLedger()
	l.Open(TagInitialTrain, []int{1, 2})
	l.Open("batch #1", []int{2})
}

func TestLedgerPendingForSnapshot(t *testing.T) {
	l := NewLedger()
	l.Open(TagTestSet, []int{10, 11, 12})

	got := l.PendingFor(TagTestSet)
	if len(got) != 3 {
		t.Fatalf("PendingFor returned %d indices, want 3", len(got))
	}
	got[0] = -1
	if fresh := l.PendingFor(TagTestSet); fresh[0] == -1 {
		t.Fatal("PendingFor must return a copy, not internal state")
	}
}
