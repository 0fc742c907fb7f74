// Package services provides the shared error taxonomy and context
// annotations used across sculptor's client components.
package services
