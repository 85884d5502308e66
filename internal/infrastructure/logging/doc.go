// Package logging provides structured logging for volumed.
//
// It wraps log/slog with the service's default attributes and level/format
// selection from configuration. Handlers write JSON in production and
// human-readable text in development.
package logging
