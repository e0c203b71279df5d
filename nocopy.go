package sptr

// noCopy makes `go vet` flag by-value duplication of an owning handle.
// Duplicating a Unique would duplicate exclusive ownership; duplicating a
// Shared would bypass the use count. Both must go through Move or Clone.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
