// Package trace records what the interpreter pipeline is doing.
//
//	lambda eval --trace=- --trace-level=debug prog.lc
//
// Events are spans (lex, parse, eval, one per file in batch runs), beta
// steps and heartbeats. A Level picks the finest Scope that gets through:
//
//   - LevelPhase: ScopeDriver and ScopePass
//   - LevelDetail: adds ScopeFile
//   - LevelDebug: adds ScopeStep, one event per fired redex
//
// The evaluator also feeds a Meter when one is in the context; Heartbeat
// samples it, so a diverging term shows up as a step count that keeps
// growing while no eval span ends.
package trace
