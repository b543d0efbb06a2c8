// Package logger provides structured logging for moneygrowth.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, configuration and the process default
//   - context.go: context-scoped loggers and request IDs
//   - redact.go: masking of bearer credentials and passwords
//
// Log output always goes to stderr so that command results on stdout stay
// machine readable.
package logger
