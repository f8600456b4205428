// Package diag defines the diagnostic model shared by the lexer, parser,
// evaluator and driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//     Ranges map to phases: 1xxx lexer, 2xxx parser, 3xxx evaluator, 4xxx IO.
//   - Message: short human oriented text.
//   - Primary: the source.Span pointing to the issue.
//   - Notes: optional secondary spans with additional context.
//
// # Emitting diagnostics
//
// Phases report through a Reporter so they are not coupled to storage. The
// parser builds a ReportBuilder via ReportError and calls Emit; the driver
// collects everything in a Bag through BagReporter and hands the Bag to
// internal/diagfmt for rendering.
//
// Package diag performs no IO and no formatting beyond the compact
// FormatShort form used by tests and the REPL status line.
package diag
