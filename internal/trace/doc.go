// Package trace is the structured event log of coreasm.
//
// Tracing is off by default and enabled from the CLI:
//
//	coreasm emit --trace=- --trace-level=detail hello.toml
//
// # Tracers
//
//   - Nop: no-op tracer used when tracing is disabled
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for dumping after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A Level admits scopes up to a threshold:
//
//   - LevelPhase: driver commands and emission passes
//   - LevelDetail: additionally, per-target work in batches
//   - LevelDebug: additionally, per-token events such as dropped references
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "emit", 0)
//	defer span.End("")
package trace
