// Package gallery presents the clips of a completed job: a load-once list
// with a single local selection, score banding for display, and staggered
// bulk downloads to a locked destination directory.
package gallery
