package sptr

// Shared retains shared ownership of a heap object through a use count that
// every alias of the object points at. The count equals the number of live
// aliases; the zero transition disposes the object and drops the counter,
// exactly once.
//
// The count is a plain int with no synchronization: all aliases of one
// object must stay on a single goroutine.
//
// The zero value is an empty owner.
type Shared[T any] struct {
	noCopy noCopy

	obj   *T
	count *int
}

// NewShared adopts a fresh object and starts its use count at 1. The caller
// must not hand the same pointer to a second independent owner.
func NewShared[T any](p *T) Shared[T] {
	count := 1
	return Shared[T]{obj: p, count: &count}
}

// MakeShared allocates a new object from v and wraps it in one step.
func MakeShared[T any](v T) Shared[T] {
	return NewShared(&v)
}

// Clone creates a new alias of the same object and increments the use
// count. Cloning an empty owner yields another empty owner.
func (s *Shared[T]) Clone() Shared[T] {
	s.retain()
	return Shared[T]{obj: s.obj, count: s.count}
}

// CopyFrom makes s an alias of whatever other references, releasing s's
// previous reference. The retain happens before the release so that
// assignment between aliases of the same object, including s to itself,
// cannot free the object out from under the copy.
func (s *Shared[T]) CopyFrom(other *Shared[T]) {
	obj, count := other.obj, other.count
	if count != nil {
		*count++
	}
	s.release()
	s.obj, s.count = obj, count
}

// Move transfers s's reference to the returned owner without touching the
// use count. s becomes empty.
func (s *Shared[T]) Move() Shared[T] {
	obj, count := s.obj, s.count
	s.obj, s.count = nil, nil
	return Shared[T]{obj: obj, count: count}
}

// MoveFrom transfers other's reference into s without touching the use
// count. s's previous reference is released first; other becomes empty.
// Self-move is a no-op.
func (s *Shared[T]) MoveFrom(other *Shared[T]) {
	if s == other {
		return
	}
	s.release()
	s.obj, s.count = other.obj, other.count
	other.obj, other.count = nil, nil
}

// Reset releases s's reference and leaves it empty.
func (s *Shared[T]) Reset() {
	s.release()
	s.obj, s.count = nil, nil
}

// ResetTo releases s's reference, then adopts p with a fresh use count of 1.
func (s *Shared[T]) ResetTo(p *T) {
	s.release()
	count := 1
	s.obj, s.count = p, &count
}

// Get returns the raw pointer without transferring ownership. The pointer
// is valid only while at least one alias remains.
func (s *Shared[T]) Get() *T {
	return s.obj
}

// Deref returns the referenced value. Dereferencing an empty owner panics
// with a nil dereference, mirroring raw pointer semantics.
func (s *Shared[T]) Deref() T {
	return *s.obj
}

// IsSet reports whether s currently references an object.
func (s *Shared[T]) IsSet() bool {
	return s.obj != nil
}

// UseCount returns the number of live aliases of the referenced object, or
// 0 for an empty owner.
func (s *Shared[T]) UseCount() int {
	if s.count == nil {
		return 0
	}
	return *s.count
}

// IsUnique reports whether s is the only alias of its object. An empty
// owner is not unique.
func (s *Shared[T]) IsUnique() bool {
	return s.count != nil && *s.count == 1
}

func (s *Shared[T]) retain() {
	if s.count != nil {
		*s.count++
	}
}

// release decrements the use count and tears the object down on the zero
// transition. Every caller empties the handle immediately afterwards, so
// the zero check never runs twice for one counter.
func (s *Shared[T]) release() {
	if s.count == nil {
		return
	}
	*s.count--
	if *s.count == 0 {
		dispose(s.obj)
	}
}
