package submission_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sculptor/internal/api"
	"sculptor/internal/gallery"
	"sculptor/internal/submission"
)

// Exercises the full happy path against a real HTTP round trip: submit,
// poll to success, navigate, load the gallery, move the selection locally.
func TestSubmitPollNavigateAndBrowseGallery(t *testing.T) {
	var statusCalls atomic.Int64
	var clipCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("POST /ingest/process-with-clips", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			SourceURL string `json:"source_url"`
			UserID    int    `json:"user_id"`
			MaxClips  int    `json:"max_clips"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.SourceURL != "https://youtu.be/abc" || payload.MaxClips != 5 {
			t.Errorf("payload = %+v", payload)
		}
		_ = json.NewEncoder(w).Encode(api.Job{JobID: "j1", TaskID: "t1", Status: "queued"})
	})
	mux.HandleFunc("GET /task/t1", func(w http.ResponseWriter, r *http.Request) {
		status := api.TaskStatus{State: api.TaskPending, Status: "Transcribing audio", Current: 2, Total: 5}
		if statusCalls.Add(1) > 2 {
			status = api.TaskStatus{State: api.TaskSuccess, Status: "done", Current: 5, Total: 5}
		}
		_ = json.NewEncoder(w).Encode(status)
	})
	mux.HandleFunc("GET /clips/j1", func(w http.ResponseWriter, r *http.Request) {
		clipCalls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string][]api.Clip{"clips": {
			{ClipIndex: 0, StartTime: 10, EndTime: 40, Duration: 30, CompositeScore: 0.91, HasSrt: true},
			{ClipIndex: 1, StartTime: 95, EndTime: 120, Duration: 25, CompositeScore: 0.62},
		}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := api.NewClient(api.Config{BaseURL: server.URL, UserID: 1})
	model := gallery.NewModel(client)

	navigations := make(chan string, 1)
	ctrl := submission.NewController(client,
		submission.WithPollInterval(5*time.Millisecond),
		submission.WithNavigationDelay(10*time.Millisecond),
		submission.WithNavigator(func(jobID string) { navigations <- jobID }),
	)

	ctx := context.Background()
	job, err := ctrl.Submit(ctx, "https://youtu.be/abc", submission.SubmitOptions{MaxClips: 5})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.JobID != "j1" || job.TaskID != "t1" {
		t.Fatalf("job = %+v", job)
	}

	final := ctrl.Watch(ctx)
	if final.Phase != submission.PhaseSucceeded {
		t.Fatalf("phase = %s error = %q", final.Phase, final.Error)
	}
	if got := statusCalls.Load(); got != 3 {
		t.Fatalf("status polls = %d, want 3", got)
	}

	var target string
	select {
	case target = <-navigations:
	case <-time.After(2 * time.Second):
		t.Fatal("navigation never happened")
	}
	if target != "j1" {
		t.Fatalf("navigated to %q", target)
	}

	if err := model.Load(ctx, target); err != nil {
		t.Fatalf("gallery load: %v", err)
	}
	if model.State() != gallery.StateLoaded {
		t.Fatalf("gallery state = %s", model.State())
	}
	clips := model.Clips()
	if len(clips) != 2 {
		t.Fatalf("clips = %d", len(clips))
	}
	if model.SelectedIndex() != 0 {
		t.Fatalf("initial selection = %d", model.SelectedIndex())
	}
	if gallery.BandFor(clips[0].CompositeScore) != gallery.BandHigh {
		t.Fatalf("clip 0 band = %s", gallery.BandFor(clips[0].CompositeScore))
	}

	if err := model.Select(1); err != nil {
		t.Fatalf("Select: %v", err)
	}
	selected, ok := model.Selected()
	if !ok || selected.ClipIndex != 1 {
		t.Fatalf("selected = %+v ok = %v", selected, ok)
	}
	if got := clipCalls.Load(); got != 1 {
		t.Fatalf("selection refetched the list: %d requests", got)
	}
}
