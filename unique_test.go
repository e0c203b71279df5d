package sptr_test

import (
	"testing"

	"sptr"
)

// widget counts how many times it has been disposed so tests can verify
// exactly-once destruction.
type widget struct {
	id       int
	disposed int
}

func (w *widget) Dispose() {
	w.disposed++
}

func TestUniqueZeroValueIsEmpty(t *testing.T) {
	var u sptr.Unique[widget]
	if u.IsSet() {
		t.Fatal("zero-value Unique must be empty")
	}
	if u.Get() != nil {
		t.Fatalf("expected nil from Get, got %v", u.Get())
	}
}

func TestUniqueOwnsAdoptedObject(t *testing.T) {
	w := &widget{id: 7}
	u := sptr.NewUnique(w)
	if !u.IsSet() {
		t.Fatal("expected non-empty owner after adoption")
	}
	if u.Get() != w {
		t.Fatalf("Get returned %p, want %p", u.Get(), w)
	}
	if u.Deref().id != 7 {
		t.Fatalf("expected id 7, got %d", u.Deref().id)
	}
}

func TestUniqueMoveEmptiesSource(t *testing.T) {
	w := &widget{}
	a := sptr.NewUnique(w)
	b := a.Move()

	if a.IsSet() {
		t.Fatal("moved-from owner must be empty")
	}
	if !b.IsSet() {
		t.Fatal("move destination must own the object")
	}
	if w.disposed != 0 {
		t.Fatalf("move must not dispose, got %d disposals", w.disposed)
	}

	b.Reset()
	if w.disposed != 1 {
		t.Fatalf("expected exactly one disposal, got %d", w.disposed)
	}

	// Resetting the moved-from owner is a no-op.
	a.Reset()
	if w.disposed != 1 {
		t.Fatalf("reset of empty owner must not dispose again, got %d", w.disposed)
	}
}

func TestUniqueMoveFromDisposesPrevious(t *testing.T) {
	old := &widget{id: 1}
	next := &widget{id: 2}
	dst := sptr.NewUnique(old)
	src := sptr.NewUnique(next)

	dst.MoveFrom(&src)

	if old.disposed != 1 {
		t.Fatalf("previous object must be disposed exactly once, got %d", old.disposed)
	}
	if src.IsSet() {
		t.Fatal("move source must be empty")
	}
	if dst.Get() != next {
		t.Fatalf("destination owns %p, want %p", dst.Get(), next)
	}
	if next.disposed != 0 {
		t.Fatalf("transferred object must stay alive, got %d disposals", next.disposed)
	}
}

func TestUniqueSelfMoveIsNoop(t *testing.T) {
	w := &widget{}
	u := sptr.NewUnique(w)
	u.MoveFrom(&u)
	if !u.IsSet() || u.Get() != w {
		t.Fatal("self-move must leave ownership unchanged")
	}
	if w.disposed != 0 {
		t.Fatalf("self-move must not dispose, got %d", w.disposed)
	}
}

func TestUniqueReset(t *testing.T) {
	w := &widget{}
	u := sptr.NewUnique(w)
	u.Reset()
	if u.IsSet() {
		t.Fatal("owner must be empty after Reset")
	}
	if w.disposed != 1 {
		t.Fatalf("expected exactly one disposal, got %d", w.disposed)
	}
}

func TestUniqueResetTo(t *testing.T) {
	old := &widget{id: 1}
	next := &widget{id: 2}
	u := sptr.NewUnique(old)
	u.ResetTo(next)

	if old.disposed != 1 {
		t.Fatalf("old object must be disposed exactly once, got %d", old.disposed)
	}
	if u.Get() != next {
		t.Fatalf("owner holds %p, want %p", u.Get(), next)
	}

	u.Reset()
	if next.disposed != 1 {
		t.Fatalf("new object must be disposed exactly once, got %d", next.disposed)
	}
}

func TestMakeUnique(t *testing.T) {
	u := sptr.MakeUnique(widget{id: 42})
	if !u.IsSet() {
		t.Fatal("MakeUnique must produce a non-empty owner")
	}
	if u.Deref().id != 42 {
		t.Fatalf("expected id 42, got %d", u.Deref().id)
	}
}

func TestUniqueMoveChain(t *testing.T) {
	w := &widget{}
	a := sptr.NewUnique(w)
	b := a.Move()
	c := b.Move()

	if a.IsSet() || b.IsSet() {
		t.Fatal("every moved-from owner must be empty")
	}
	if c.Get() != w {
		t.Fatal("final owner must hold the original object")
	}

	c.Reset()
	a.Reset()
	b.Reset()
	if w.disposed != 1 {
		t.Fatalf("expected exactly one disposal after move chain, got %d", w.disposed)
	}
}
