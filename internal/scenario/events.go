package scenario

import "sptr/internal/audit"

// EventKind classifies a progress event sent to an observer (the watch UI).
type EventKind uint8

const (
	EventAlloc EventKind = iota + 1
	EventRetain
	EventRelease
	EventMove
	EventFree
	EventIteration
)

// String returns the string representation of EventKind.
func (k EventKind) String() string {
	switch k {
	case EventAlloc:
		return "alloc"
	case EventRetain:
		return "retain"
	case EventRelease:
		return "release"
	case EventMove:
		return "move"
	case EventFree:
		return "free"
	case EventIteration:
		return "iteration"
	default:
		return "unknown"
	}
}

// Event is one progress notification from a running scenario instance.
// Events are emitted synchronously; a nil channel disables them.
type Event struct {
	Kind  EventKind
	ID    audit.ID
	Label string
	RC    int
	Iter  int
	Live  uint64
}
