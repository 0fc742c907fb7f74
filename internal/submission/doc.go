// Package submission drives the asynchronous job lifecycle: validate and
// submit a source URL, poll the resulting task at a fixed interval until it
// reaches a terminal state, and hand the job ID to the gallery on success.
//
// The controller is a small state machine
// (idle → submitting → polling → succeeded/failed) with single-writer
// ownership of the current job: only the controller mutates the snapshot,
// and a superseded poller's responses are discarded before they can touch
// live state.
package submission
