// Package logging constructs slog loggers with the formats and standardized
// field names shared by all sculptor components.
package logging
