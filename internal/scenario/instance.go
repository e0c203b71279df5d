package scenario

import (
	"fmt"
	"math/rand"
	"strconv"

	"sptr"
	"sptr/internal/audit"
	"sptr/internal/trace"
)

// instance drives one isolated copy of a scenario: its own ledger, its own
// rng, one goroutine. The single-threaded contract of the sptr handles
// holds within an instance; parallelism happens across instances.
//
// Every helper keeps the ledger in step with the handle operation it
// performs. Ledger releases happen before the handle operation, so the
// object's own Free lands on an already-released record.
type instance struct {
	ledger  *audit.Ledger
	tracer  trace.Tracer
	rng     *rand.Rand
	aliases int
	events  chan<- Event
	iter    int
}

func (in *instance) emit(kind EventKind, id audit.ID, label string, rc int) {
	trace.Point(in.tracer, scopeFor(kind), kind.String(),
		fmt.Sprintf("%s#%d", label, id),
		map[string]string{"rc": strconv.Itoa(rc)})
	if in.events != nil {
		in.events <- Event{Kind: kind, ID: id, Label: label, RC: rc, Iter: in.iter, Live: in.ledger.Snapshot().Live}
	}
}

func scopeFor(kind EventKind) trace.Scope {
	switch kind {
	case EventRetain, EventRelease:
		return trace.ScopeCount
	case EventIteration:
		return trace.ScopeStep
	default:
		return trace.ScopeOwner
	}
}

// newShared allocates a tracked object owned by a fresh Shared handle.
func (in *instance) newShared(label string) sptr.Shared[Object] {
	obj := newObject(in.ledger, label)
	in.emit(EventAlloc, obj.id, label, 1)
	return sptr.NewShared(obj)
}

// newUnique allocates a tracked object owned by a fresh Unique handle.
func (in *instance) newUnique(label string) sptr.Unique[Object] {
	obj := newObject(in.ledger, label)
	in.emit(EventAlloc, obj.id, label, 1)
	return sptr.NewUnique(obj)
}

// clone creates a new alias of s.
func (in *instance) clone(s *sptr.Shared[Object]) sptr.Shared[Object] {
	obj := s.Get()
	if obj != nil {
		in.ledger.Retain(obj.id)
	}
	c := s.Clone()
	if obj != nil {
		in.emit(EventRetain, obj.id, obj.label, c.UseCount())
	}
	return c
}

// dropShared releases s's reference and empties it.
func (in *instance) dropShared(s *sptr.Shared[Object]) {
	if !s.IsSet() {
		return
	}
	obj := s.Get()
	last := s.IsUnique()
	rcAfter := s.UseCount() - 1
	in.ledger.Release(obj.id)
	s.Reset()
	if last {
		in.emit(EventFree, obj.id, obj.label, 0)
	} else {
		in.emit(EventRelease, obj.id, obj.label, rcAfter)
	}
}

// copyAssign makes dst an alias of src's object.
func (in *instance) copyAssign(dst, src *sptr.Shared[Object]) {
	if src.IsSet() {
		in.ledger.Retain(src.Get().id)
	}
	var freed *Object
	if dst.IsSet() {
		if dst.IsUnique() && dst.Get() != src.Get() {
			freed = dst.Get()
		}
		in.ledger.Release(dst.Get().id)
	}
	dst.CopyFrom(src)
	if freed != nil {
		in.emit(EventFree, freed.id, freed.label, 0)
	}
	if dst.IsSet() {
		obj := dst.Get()
		in.emit(EventRetain, obj.id, obj.label, dst.UseCount())
	}
}

// moveAssign transfers src's reference into dst.
func (in *instance) moveAssign(dst, src *sptr.Shared[Object]) {
	if dst == src {
		return
	}
	var freed *Object
	if dst.IsSet() {
		if dst.IsUnique() {
			freed = dst.Get()
		}
		in.ledger.Release(dst.Get().id)
	}
	if src.IsSet() {
		in.ledger.Move(src.Get().id)
	}
	dst.MoveFrom(src)
	if freed != nil {
		in.emit(EventFree, freed.id, freed.label, 0)
	}
	if dst.IsSet() {
		obj := dst.Get()
		in.emit(EventMove, obj.id, obj.label, dst.UseCount())
	}
}

// replaceShared adopts a fresh object into s, releasing its previous one.
func (in *instance) replaceShared(s *sptr.Shared[Object], label string) {
	var freed *Object
	if s.IsSet() {
		if s.IsUnique() {
			freed = s.Get()
		}
		in.ledger.Release(s.Get().id)
	}
	obj := newObject(in.ledger, label)
	s.ResetTo(obj)
	if freed != nil {
		in.emit(EventFree, freed.id, freed.label, 0)
	}
	in.emit(EventAlloc, obj.id, label, 1)
}

// moveUnique transfers ownership from src into dst.
func (in *instance) moveUnique(dst, src *sptr.Unique[Object]) {
	if dst == src {
		return
	}
	var freed *Object
	if dst.IsSet() {
		freed = dst.Get()
		in.ledger.Release(freed.id)
	}
	if src.IsSet() {
		in.ledger.Move(src.Get().id)
	}
	dst.MoveFrom(src)
	if freed != nil {
		in.emit(EventFree, freed.id, freed.label, 0)
	}
	if dst.IsSet() {
		obj := dst.Get()
		in.emit(EventMove, obj.id, obj.label, 1)
	}
}

// replaceUnique adopts a fresh object into u, disposing its previous one.
func (in *instance) replaceUnique(u *sptr.Unique[Object], label string) {
	var freed *Object
	if u.IsSet() {
		freed = u.Get()
		in.ledger.Release(freed.id)
	}
	obj := newObject(in.ledger, label)
	u.ResetTo(obj)
	if freed != nil {
		in.emit(EventFree, freed.id, freed.label, 0)
	}
	in.emit(EventAlloc, obj.id, label, 1)
}

// dropUnique disposes u's object and empties it.
func (in *instance) dropUnique(u *sptr.Unique[Object]) {
	if !u.IsSet() {
		return
	}
	obj := u.Get()
	in.ledger.Release(obj.id)
	u.Reset()
	in.emit(EventFree, obj.id, obj.label, 0)
}

// expectCount verifies the observed use count of s.
func expectCount(s *sptr.Shared[Object], want int) error {
	if got := s.UseCount(); got != want {
		return fmt.Errorf("use count = %d, want %d", got, want)
	}
	return nil
}
