// Command sculptor is the CLI for the clip-generation service: submit a
// source video, follow the processing task to completion, browse the
// generated clips, and download them locally.
package main
