// Package api is the typed HTTP client for the remote clip-generation
// service. It converts the service's JSON payloads into closed result types
// at the boundary and maps failures onto the shared error taxonomy, keeping
// the service's own detail message available for display when one exists.
package api
