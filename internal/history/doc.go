// Package history persists past submissions in a local SQLite database so
// completed jobs can be reopened by job ID after the process exits.
package history
