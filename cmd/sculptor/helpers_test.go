package main

import (
	"strings"
	"testing"

	"sculptor/internal/api"
)

func TestFormatClipTime(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{9.4, "0:09"},
		{75, "1:15"},
		{3671, "1:01:11"},
		{-3, "0:00"},
	}
	for _, tc := range cases {
		if got := formatClipTime(tc.seconds); got != tc.want {
			t.Errorf("formatClipTime(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestClipRowsIncludeScoreBand(t *testing.T) {
	rows := clipRows([]api.Clip{
		{ClipIndex: 0, StartTime: 10, EndTime: 40, Duration: 30, CompositeScore: 0.91, FileSizeMB: 12.3, HasSrt: true},
		{ClipIndex: 1, StartTime: 95, EndTime: 120, Duration: 25, CompositeScore: 0.5},
	})
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][3] != "0.91 (High)" {
		t.Fatalf("score cell = %q", rows[0][3])
	}
	if rows[1][3] != "0.50 (Low)" {
		t.Fatalf("score cell = %q", rows[1][3])
	}
	if rows[0][5] != "yes" || rows[1][5] != "no" {
		t.Fatalf("subtitle cells = %q %q", rows[0][5], rows[1][5])
	}
	if rows[1][4] != "-" {
		t.Fatalf("size cell = %q", rows[1][4])
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable([]string{"#", "Name"}, [][]string{{"1", "first"}, {"2", "second"}}, []columnAlignment{alignRight, alignLeft})
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("table output missing rows:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 40); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("a very long submission title indeed", 10); got != "a very ..." {
		t.Fatalf("truncate = %q", got)
	}
}
