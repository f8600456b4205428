// Package driver wires the lexer, parser and evaluator into whole-input
// operations used by the CLI and the REPL.
package driver

import (
	"time"

	"lambda/internal/eval"
)

// DefaultMaxDiagnostics caps diagnostics collected per input.
const DefaultMaxDiagnostics = 64

// Options configures a pipeline run.
type Options struct {
	MaxDiagnostics int
	// MaxDepth bounds parser nesting; 0 means unlimited.
	MaxDepth int
	Eval     eval.Options
	// Timeout bounds the evaluation phase of one input; 0 means none.
	Timeout time.Duration
	// Cache, если задан, хранит нормальные формы между запусками.
	Cache *ResultCache
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}
