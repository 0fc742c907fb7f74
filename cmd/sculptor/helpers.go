package main

import (
	"fmt"
	"io"

	"sculptor/internal/api"
	"sculptor/internal/gallery"
)

// formatClipTime renders seconds as m:ss (or h:mm:ss past an hour).
func formatClipTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds + 0.5)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func formatClipRange(clip api.Clip) string {
	return fmt.Sprintf("%s - %s", formatClipTime(clip.StartTime), formatClipTime(clip.EndTime))
}

func formatFileSize(sizeMB float64) string {
	if sizeMB <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f MB", sizeMB)
}

func clipRows(clips []api.Clip) [][]string {
	rows := make([][]string, 0, len(clips))
	for _, clip := range clips {
		rows = append(rows, []string{
			fmt.Sprintf("%d", clip.ClipIndex),
			formatClipRange(clip),
			formatClipTime(clip.Duration),
			gallery.FormatScore(clip.CompositeScore),
			formatFileSize(clip.FileSizeMB),
			yesNo(clip.HasSrt),
		})
	}
	return rows
}

var clipTableHeaders = []string{"#", "Range", "Length", "Score", "Size", "Subtitles"}

var clipTableAligns = []columnAlignment{
	alignRight, alignLeft, alignRight, alignLeft, alignRight, alignLeft,
}

func printClipTable(out io.Writer, clips []api.Clip) {
	fmt.Fprintln(out, renderTable(clipTableHeaders, clipRows(clips), clipTableAligns))
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func truncate(value string, max int) string {
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}
