package scenario

import (
	"sptr/internal/audit"
)

// Object is the managed payload every scenario allocates. It registers
// itself with a ledger on creation and reports its own destruction, so the
// ledger can verify exactly-once disposal independently of the driver.
type Object struct {
	id     audit.ID
	label  string
	ledger *audit.Ledger
}

// newObject allocates a tracked object in l.
func newObject(l *audit.Ledger, label string) *Object {
	return &Object{id: l.Alloc(label), label: label, ledger: l}
}

// Dispose marks the object as destroyed in its ledger. Called by the sptr
// handles when the last owner lets go.
func (o *Object) Dispose() {
	o.ledger.Free(o.id)
}

// ID returns the ledger ID of the object.
func (o *Object) ID() audit.ID { return o.id }

// Label returns the allocation label of the object.
func (o *Object) Label() string { return o.label }
