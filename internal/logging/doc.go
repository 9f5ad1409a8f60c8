// Package logging builds slog loggers with console and JSON handlers.
//
// Failure handling throughout multishot substitutes safe defaults instead
// of raising; this package carries the log lines that make those
// substitutions visible.
package logging
