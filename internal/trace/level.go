package trace

import "fmt"

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota
	// LevelError emits only on leak or violation reports.
	LevelError
	// LevelStep emits run and scenario step boundaries.
	LevelStep
	// LevelOp adds per-owner operations.
	LevelOp
	// LevelDebug emits everything including individual count changes.
	LevelDebug
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelStep:
		return "step"
	case LevelOp:
		return "op"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "OFF":
		return LevelOff, nil
	case "error", "ERROR":
		return LevelError, nil
	case "step", "STEP":
		return LevelStep, nil
	case "op", "OP":
		return LevelOp, nil
	case "debug", "DEBUG":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|step|op|debug)", s)
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError:
		// Leak and violation reports go through the error path directly.
		return false
	case LevelStep:
		return scope <= ScopeStep
	case LevelOp:
		return scope <= ScopeOwner
	case LevelDebug:
		return true
	default:
		return false
	}
}
