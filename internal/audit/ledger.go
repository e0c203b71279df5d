package audit

import (
	"fmt"
	"sort"
	"strings"
)

// ID identifies one tracked allocation. IDs are monotonically increasing
// and never reused within a ledger, so a stale ID can always be told apart
// from a live one.
type ID uint64

// Record describes the ledger's view of one allocation.
type Record struct {
	ID       ID
	Label    string
	RC       int
	Live     bool
	Retains  uint64
	Releases uint64
}

// ViolationKind classifies a bookkeeping fault.
type ViolationKind uint8

const (
	ViolationDoubleFree ViolationKind = iota + 1
	ViolationUseAfterFree
	ViolationCountMismatch
)

// String returns the string representation of ViolationKind.
func (k ViolationKind) String() string {
	switch k {
	case ViolationDoubleFree:
		return "double-free"
	case ViolationUseAfterFree:
		return "use-after-free"
	case ViolationCountMismatch:
		return "count-mismatch"
	default:
		return "unknown"
	}
}

// Violation records a fault detected by the ledger. Violations never panic:
// the ledger exists to report driver bugs, not to crash on them.
type Violation struct {
	Kind   ViolationKind
	ID     ID
	Label  string
	Detail string
}

func (v Violation) String() string {
	s := fmt.Sprintf("%s: %s#%d", v.Kind, v.Label, v.ID)
	if v.Detail != "" {
		s += " (" + v.Detail + ")"
	}
	return s
}

// Ledger tracks every allocation a workload makes: its lifetime, its
// retain/release pairing, and any bookkeeping faults. Not goroutine-safe;
// use one ledger per workload instance.
type Ledger struct {
	nextID     ID
	objs       map[ID]*Record
	counters   Counters
	violations []Violation
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		nextID: 1,
		objs:   make(map[ID]*Record, 64),
	}
}

// Alloc registers a new allocation and returns its ID.
func (l *Ledger) Alloc(label string) ID {
	id := l.nextID
	l.nextID++
	l.objs[id] = &Record{ID: id, Label: label, RC: 1, Live: true}
	l.counters.Allocs++
	l.counters.Live++
	if l.counters.Live > l.counters.MaxLive {
		l.counters.MaxLive = l.counters.Live
	}
	return id
}

// Free marks an allocation as destroyed. Freeing an unknown or already
// freed ID records a violation.
func (l *Ledger) Free(id ID) {
	rec, ok := l.objs[id]
	if !ok {
		l.violate(ViolationDoubleFree, id, "", "free of unknown id")
		return
	}
	if !rec.Live {
		l.violate(ViolationDoubleFree, id, rec.Label, "")
		return
	}
	rec.Live = false
	rec.RC = 0
	l.counters.Frees++
	l.counters.Live--
}

// Retain records an alias being created for id.
func (l *Ledger) Retain(id ID) {
	rec, ok := l.objs[id]
	if !ok || !rec.Live {
		l.violate(ViolationUseAfterFree, id, labelOf(rec), "retain after free")
		return
	}
	rec.RC++
	rec.Retains++
	l.counters.Retains++
}

// Release records an alias being removed for id. The object's destruction
// is reported separately through Free by the object itself.
func (l *Ledger) Release(id ID) {
	rec, ok := l.objs[id]
	if !ok {
		l.violate(ViolationUseAfterFree, id, "", "release of unknown id")
		return
	}
	if !rec.Live {
		l.violate(ViolationUseAfterFree, id, rec.Label, "release after free")
		return
	}
	if rec.RC == 0 {
		l.violate(ViolationCountMismatch, id, rec.Label, "release below zero")
		return
	}
	rec.RC--
	rec.Releases++
	l.counters.Releases++
}

// Move records an ownership transfer for id. Transfers do not change the
// use count; the ledger counts them for the stats report only.
func (l *Ledger) Move(id ID) {
	l.counters.Moves++
}

// Expect records a count-mismatch violation when the observed use count
// for id differs from what the ledger believes.
func (l *Ledger) Expect(id ID, observed int) {
	rec, ok := l.objs[id]
	if !ok || !rec.Live {
		l.violate(ViolationUseAfterFree, id, labelOf(rec), "count check after free")
		return
	}
	if rec.RC != observed {
		l.violate(ViolationCountMismatch, id, rec.Label,
			fmt.Sprintf("ledger=%d observed=%d", rec.RC, observed))
	}
}

// Live returns the records of all still-live allocations, ordered by ID.
func (l *Ledger) Live() []Record {
	out := make([]Record, 0, l.counters.Live)
	for _, rec := range l.objs {
		if rec.Live {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Violations returns all recorded faults in detection order.
func (l *Ledger) Violations() []Violation {
	return l.violations
}

// Snapshot returns the current counter values.
func (l *Ledger) Snapshot() Stats {
	c := l.counters
	return Stats{
		Allocs:     c.Allocs,
		Frees:      c.Frees,
		Retains:    c.Retains,
		Releases:   c.Releases,
		Moves:      c.Moves,
		Live:       c.Live,
		MaxLive:    c.MaxLive,
		Violations: uint64(len(l.violations)),
	}
}

// CheckLeaks returns an error describing every still-live allocation, or
// nil when the ledger is clean. The listing is capped; the summary counts
// everything.
func (l *Ledger) CheckLeaks() error {
	live := l.Live()
	if len(live) == 0 {
		return nil
	}

	labelCounts := make(map[string]int, 8)
	for _, rec := range live {
		labelCounts[rec.Label]++
	}
	labels := make([]string, 0, len(labelCounts))
	for label := range labelCounts {
		labels = append(labels, fmt.Sprintf("%s=%d", label, labelCounts[label]))
	}
	sort.Strings(labels)

	const maxList = 8
	list := make([]string, 0, maxList)
	for _, rec := range live {
		if len(list) == maxList {
			break
		}
		list = append(list, fmt.Sprintf("%s#%d(rc=%d)", rec.Label, rec.ID, rec.RC))
	}

	msg := fmt.Sprintf("leak detected: %d objects still alive", len(live))
	if len(labels) > 0 {
		msg += " (" + strings.Join(labels, ", ") + ")"
	}
	if len(list) > 0 {
		msg += ": " + strings.Join(list, ", ")
	}
	return fmt.Errorf("%s", msg)
}

func (l *Ledger) violate(kind ViolationKind, id ID, label, detail string) {
	l.violations = append(l.violations, Violation{Kind: kind, ID: id, Label: label, Detail: detail})
}

func labelOf(rec *Record) string {
	if rec == nil {
		return ""
	}
	return rec.Label
}
