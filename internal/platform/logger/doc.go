// Package logger provides structured logging functionality for the application.
//
// It builds on the standard library log/slog package, emitting JSON records in
// production and colorized text (via tint) for local development, and carries
// request-scoped loggers through context.Context.
package logger
