package sptr

// Disposer is implemented by managed objects that need teardown when their
// last owner lets go. It is the object's own destructor hook, not a custom
// deleter: the owner decides when, the object decides how.
type Disposer interface {
	Dispose()
}

// dispose runs the object's Dispose hook, if it has one. Objects without
// the hook are simply dropped and reclaimed by the collector.
func dispose[T any](p *T) {
	if p == nil {
		return
	}
	if d, ok := any(p).(Disposer); ok {
		d.Dispose()
	}
}
