package main

import (
	"bytes"
	"strings"
	"testing"

	"sculptor/internal/api"
	"sculptor/internal/submission"
)

func TestProgressLineByPhase(t *testing.T) {
	cases := []struct {
		snap submission.Snapshot
		want string
	}{
		{submission.Snapshot{Phase: submission.PhaseSubmitting}, "Submitting..."},
		{submission.Snapshot{Phase: submission.PhasePolling, Status: api.TaskStatus{Status: "Transcribing", Current: 2, Total: 5}}, "Transcribing (step 2/5)"},
		{submission.Snapshot{Phase: submission.PhasePolling}, "Processing..."},
		{submission.Snapshot{Phase: submission.PhaseFailed, Error: "audio track missing"}, "Error: audio track missing"},
		{submission.Snapshot{Phase: submission.PhaseIdle}, ""},
	}
	for _, tc := range cases {
		if got := progressLine(tc.snap); got != tc.want {
			t.Errorf("progressLine(%s) = %q, want %q", tc.snap.Phase, got, tc.want)
		}
	}
}

func TestProgressRendererDeduplicatesLines(t *testing.T) {
	var buf bytes.Buffer
	renderer := newProgressRenderer(&buf)

	snap := submission.Snapshot{Phase: submission.PhasePolling, Status: api.TaskStatus{Status: "Downloading"}}
	renderer.Update(snap)
	renderer.Update(snap)
	snap.Status.Status = "Transcribing"
	renderer.Update(snap)
	renderer.Finish()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "Downloading" || lines[1] != "Transcribing" {
		t.Fatalf("lines = %q", lines)
	}
}

func TestStateLabelWithoutColor(t *testing.T) {
	if got := stateLabel(api.TaskSuccess, false); got != "SUCCESS" {
		t.Fatalf("stateLabel = %q", got)
	}
	if got := stateLabel(api.TaskState(""), false); got != "UNKNOWN" {
		t.Fatalf("stateLabel = %q", got)
	}
}
