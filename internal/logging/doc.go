// Package logging assembles structured slog loggers used across ncmconv.
//
// It owns the console and JSON handlers, the rotating log file sink, and the
// context-aware helpers that tag log lines with conversion request IDs and
// source paths. The package also provides a no-op logger for tests and wiring
// code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape and routing.
package logging
