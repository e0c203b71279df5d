package sptr

// Unique retains exclusive ownership of a heap object. At most one live
// Unique ever owns a given object; ownership is transferable via Move and
// MoveFrom but never duplicable.
//
// The zero value is an empty owner.
type Unique[T any] struct {
	noCopy noCopy

	obj *T
}

// NewUnique adopts an already-allocated object. The caller must not retain
// or independently release the pointer afterwards.
func NewUnique[T any](p *T) Unique[T] {
	return Unique[T]{obj: p}
}

// MakeUnique allocates a new object from v and wraps it in one step, so no
// unmanaged raw pointer ever exists.
func MakeUnique[T any](v T) Unique[T] {
	return Unique[T]{obj: &v}
}

// Move transfers ownership out of u and returns the new owner. u becomes
// empty and can be reused or dropped safely.
func (u *Unique[T]) Move() Unique[T] {
	obj := u.obj
	u.obj = nil
	return Unique[T]{obj: obj}
}

// MoveFrom transfers ownership from other into u. Any object u previously
// owned is disposed first. other becomes empty. Self-move is a no-op.
func (u *Unique[T]) MoveFrom(other *Unique[T]) {
	if u == other {
		return
	}
	dispose(u.obj)
	u.obj = other.obj
	other.obj = nil
}

// Reset disposes the owned object, if any, and leaves u empty.
func (u *Unique[T]) Reset() {
	dispose(u.obj)
	u.obj = nil
}

// ResetTo disposes the owned object, if any, then adopts p.
func (u *Unique[T]) ResetTo(p *T) {
	dispose(u.obj)
	u.obj = p
}

// Get returns the raw pointer without transferring ownership. The pointer
// is valid only while u remains alive and non-empty.
func (u *Unique[T]) Get() *T {
	return u.obj
}

// Deref returns the owned value. Dereferencing an empty owner panics with
// a nil dereference, mirroring raw pointer semantics.
func (u *Unique[T]) Deref() T {
	return *u.obj
}

// IsSet reports whether u currently owns an object.
func (u *Unique[T]) IsSet() bool {
	return u.obj != nil
}
