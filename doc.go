// Package sptr provides two smart-pointer primitives for explicit lifetime
// management of heap objects: Unique, a move-only exclusive owner, and
// Shared, a reference-counted owner.
//
// Both handles are single-threaded by contract. The shared use count is a
// plain integer; aliases of one object must stay on a single goroutine.
//
// Go has no destructors, so ending ownership is always an explicit
// operation (Reset, ResetTo, MoveFrom). When the last owner lets go of an
// object that implements Disposer, its Dispose method runs exactly once.
package sptr
