// Package trace records ownership events emitted while a workload drives
// the sptr handles: allocations, clones, moves, releases and frees.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	sptr run shared-fanout --trace=- --trace-level=op
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - nop tracer: zero overhead when tracing is disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer holding the most recent events
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
// Verbosity is controlled by levels:
//
//   - LevelOff: no tracing
//   - LevelError: only leak/violation reports
//   - LevelStep: run and scenario step boundaries
//   - LevelOp: per-owner operations (alloc, move, free)
//   - LevelDebug: everything including individual count changes
//
// # Scopes
//
// Events are categorized by scope:
//
//   - ScopeRun: a whole workload run
//   - ScopeStep: one scenario iteration
//   - ScopeOwner: one owner operation
//   - ScopeCount: one use-count increment or decrement
//
// # Context propagation
//
// Tracers travel with the workload through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeStep, "iteration", parentID)
//	defer span.End("")
package trace
