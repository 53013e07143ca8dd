// Package logger provides process-level structured logging built on the Zap logging library.
// It keeps a global sugared logger with an atomic level, exposes context-aware helpers
// (plain, printf-style and key-value variants), and lets callers attach a named logger
// to a context so that nested components log through it.
// The test report itself is not written here; see pkg/report for that.
package logger
