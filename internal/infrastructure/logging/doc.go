// Package logging provides the structured logger for scancore, a thin
// wrapper over log/slog with service-wide default attributes.
package logging
