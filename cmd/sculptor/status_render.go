package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"sculptor/internal/api"
	"sculptor/internal/submission"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// progressRenderer shows the poller's latest snapshot. On a terminal the
// line is rewritten in place; elsewhere each distinct message prints once.
type progressRenderer struct {
	out      io.Writer
	terminal bool
	lastLine string
	active   bool
}

func newProgressRenderer(out io.Writer) *progressRenderer {
	return &progressRenderer{out: out, terminal: isTerminal(out)}
}

func (r *progressRenderer) Update(snap submission.Snapshot) {
	line := progressLine(snap)
	if line == "" || line == r.lastLine {
		return
	}
	r.lastLine = line
	if r.terminal {
		fmt.Fprintf(r.out, "\r\x1b[2K%s", line)
		r.active = true
		return
	}
	fmt.Fprintln(r.out, line)
}

// Finish terminates an in-place progress line before normal output resumes.
func (r *progressRenderer) Finish() {
	if r.terminal && r.active {
		fmt.Fprintln(r.out)
		r.active = false
	}
}

func progressLine(snap submission.Snapshot) string {
	switch snap.Phase {
	case submission.PhaseSubmitting:
		return "Submitting..."
	case submission.PhasePolling:
		line := snap.Status.Status
		if line == "" {
			line = "Processing..."
		}
		if snap.Status.Total > 0 {
			line = fmt.Sprintf("%s (step %d/%d)", line, snap.Status.Current, snap.Status.Total)
		}
		return line
	case submission.PhaseSucceeded:
		return snap.Status.Status
	case submission.PhaseFailed:
		return "Error: " + snap.Error
	default:
		return ""
	}
}

func stateLabel(state api.TaskState, colorize bool) string {
	label := string(state)
	if label == "" {
		label = "UNKNOWN"
	}
	if !colorize {
		return label
	}
	switch state {
	case api.TaskSuccess:
		return ansiGreen + label + ansiReset
	case api.TaskFailure:
		return ansiRed + label + ansiReset
	case api.TaskPending:
		return ansiYellow + label + ansiReset
	default:
		return ansiBlue + label + ansiReset
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
