package audit

import (
	"strings"
	"testing"
)

func TestLedgerAllocFreeBalance(t *testing.T) {
	l := NewLedger()
	ids := make([]ID, 0, 4)
	for i := 0; i < 4; i++ {
		ids = append(ids, l.Alloc("widget"))
	}
	for _, id := range ids {
		l.Free(id)
	}

	s := l.Snapshot()
	if s.Allocs != 4 || s.Frees != 4 || s.Live != 0 {
		t.Fatalf("unexpected stats: %+v", s)
	}
	if s.MaxLive != 4 {
		t.Fatalf("max live = %d, want 4", s.MaxLive)
	}
	if !s.Balanced() {
		t.Fatalf("expected balanced stats, got %+v", s)
	}
	if err := l.CheckLeaks(); err != nil {
		t.Fatalf("unexpected leak error: %v", err)
	}
}

func TestLedgerIDsNeverReused(t *testing.T) {
	l := NewLedger()
	a := l.Alloc("widget")
	l.Free(a)
	b := l.Alloc("widget")
	if b <= a {
		t.Fatalf("id %d reused after %d", b, a)
	}
}

func TestLedgerDoubleFree(t *testing.T) {
	l := NewLedger()
	id := l.Alloc("widget")
	l.Free(id)
	l.Free(id)

	vs := l.Violations()
	if len(vs) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(vs))
	}
	if vs[0].Kind != ViolationDoubleFree {
		t.Fatalf("expected %v, got %v", ViolationDoubleFree, vs[0].Kind)
	}
	if l.Snapshot().Frees != 1 {
		t.Fatalf("double free must not count twice, frees = %d", l.Snapshot().Frees)
	}
}

func TestLedgerRetainReleasePairing(t *testing.T) {
	l := NewLedger()
	id := l.Alloc("widget")

	l.Retain(id)
	l.Retain(id)
	l.Release(id)

	l.Expect(id, 2)
	if len(l.Violations()) != 0 {
		t.Fatalf("unexpected violations: %v", l.Violations())
	}

	l.Expect(id, 5)
	vs := l.Violations()
	if len(vs) != 1 || vs[0].Kind != ViolationCountMismatch {
		t.Fatalf("expected a count mismatch, got %v", vs)
	}
}

func TestLedgerUseAfterFree(t *testing.T) {
	l := NewLedger()
	id := l.Alloc("widget")
	l.Free(id)
	l.Retain(id)

	vs := l.Violations()
	if len(vs) != 1 || vs[0].Kind != ViolationUseAfterFree {
		t.Fatalf("expected use-after-free, got %v", vs)
	}
}

func TestLedgerReleaseBelowZero(t *testing.T) {
	l := NewLedger()
	id := l.Alloc("widget")
	l.Release(id)
	l.Release(id)

	vs := l.Violations()
	if len(vs) != 1 || vs[0].Kind != ViolationCountMismatch {
		t.Fatalf("expected count mismatch, got %v", vs)
	}
}

func TestLedgerLeakReport(t *testing.T) {
	l := NewLedger()
	l.Alloc("widget")
	l.Alloc("widget")
	l.Alloc("gadget")

	err := l.CheckLeaks()
	if err == nil {
		t.Fatal("expected a leak error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "3 objects still alive") {
		t.Fatalf("missing summary in %q", msg)
	}
	if !strings.Contains(msg, "widget=2") || !strings.Contains(msg, "gadget=1") {
		t.Fatalf("missing per-label counts in %q", msg)
	}
	if !strings.Contains(msg, "widget#1(rc=1)") {
		t.Fatalf("missing object listing in %q", msg)
	}
}

func TestLedgerLeakListingCapped(t *testing.T) {
	l := NewLedger()
	for i := 0; i < 20; i++ {
		l.Alloc("widget")
	}
	err := l.CheckLeaks()
	if err == nil {
		t.Fatal("expected a leak error")
	}
	if got := strings.Count(err.Error(), "widget#"); got != 8 {
		t.Fatalf("listing should cap at 8 entries, got %d", got)
	}
}

func TestLedgerDumpString(t *testing.T) {
	l := NewLedger()
	if l.DumpString() != "" {
		t.Fatal("clean ledger must dump empty")
	}
	id := l.Alloc("widget")
	l.Retain(id)
	out := l.DumpString()
	if !strings.Contains(out, "widget") || !strings.Contains(out, "2") {
		t.Fatalf("unexpected dump:\n%s", out)
	}
}
