package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SubmitMode selects which ingest pipeline the service runs for a submission.
type SubmitMode string

const (
	// ModeClips runs the full pipeline: download, transcribe, analyze, render clips.
	ModeClips SubmitMode = "clips"
	// ModeDownload only downloads the source and extracts audio.
	ModeDownload SubmitMode = "download"
	// ModeTranscribe downloads and transcribes without generating clips.
	ModeTranscribe SubmitMode = "transcribe"
)

// ParseSubmitMode validates a user-supplied mode string.
func ParseSubmitMode(value string) (SubmitMode, error) {
	mode := SubmitMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case ModeClips, ModeDownload, ModeTranscribe:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown submit mode %q (expected clips, download, or transcribe)", value)
	}
}

// TaskState is the closed set of task states reported by the service.
// Values outside the set are treated as still in progress.
type TaskState string

const (
	TaskPending TaskState = "PENDING"
	TaskSuccess TaskState = "SUCCESS"
	TaskFailure TaskState = "FAILURE"
)

// Terminal reports whether no further state transitions are expected.
func (s TaskState) Terminal() bool {
	return s == TaskSuccess || s == TaskFailure
}

// Job identifies one accepted processing request.
type Job struct {
	JobID   string `json:"job_id"`
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// TaskStatus is one polled snapshot of task progress. Result is an opaque
// payload the service attaches to terminal states.
type TaskStatus struct {
	State   TaskState       `json:"state"`
	Status  string          `json:"status"`
	Current int             `json:"current"`
	Total   int             `json:"total"`
	Error   string          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// Percent derives a progress fraction in [0,100] from the current/total
// counters. Snapshots without counters report zero.
func (t TaskStatus) Percent() float64 {
	if t.Total <= 0 || t.Current < 0 {
		return 0
	}
	pct := float64(t.Current) / float64(t.Total) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Clip is one generated highlight belonging to a completed job.
type Clip struct {
	ClipIndex      int     `json:"clip_index"`
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	Duration       float64 `json:"duration"`
	CompositeScore float64 `json:"composite_score"`
	FileSizeMB     float64 `json:"file_size_mb"`
	HasSrt         bool    `json:"has_srt"`
}

type clipList struct {
	Clips []Clip `json:"clips"`
}

// Preview is the lightweight clip summary for a job.
type Preview struct {
	JobID      string `json:"job_id"`
	TotalClips int    `json:"total_clips"`
	Clips      []Clip `json:"clips"`
}

// AssetKind names a job-scoped downloadable artifact.
type AssetKind string

const (
	AssetVideo         AssetKind = "video"
	AssetAudio         AssetKind = "audio"
	AssetTranscript    AssetKind = "transcript"
	AssetAnalysis      AssetKind = "analysis"
	AssetClipsMetadata AssetKind = "clips_metadata"
)

var assetExtensions = map[AssetKind]string{
	AssetVideo:         "mp4",
	AssetAudio:         "wav",
	AssetTranscript:    "json",
	AssetAnalysis:      "json",
	AssetClipsMetadata: "json",
}

// ParseAssetKind validates a user-supplied asset name.
func ParseAssetKind(value string) (AssetKind, error) {
	kind := AssetKind(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := assetExtensions[kind]; !ok {
		return "", fmt.Errorf("unknown asset %q (expected video, audio, transcript, analysis, or clips_metadata)", value)
	}
	return kind, nil
}
