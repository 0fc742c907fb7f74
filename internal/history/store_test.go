package history

import (
	"context"
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestAddAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec, err := store.Add(ctx, Record{
		JobID:     "j1",
		TaskID:    "t1",
		SourceURL: "https://youtu.be/epic-keynote-moment",
		Mode:      "clips",
		State:     "polling",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if rec.Title != "Epic Keynote Moment" {
		t.Fatalf("derived title = %q", rec.Title)
	}

	got, err := store.Get(ctx, "j1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TaskID != "t1" || got.State != "polling" || got.Title != rec.Title {
		t.Fatalf("got = %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("timestamps not persisted")
	}
}

func TestGetUnknownJob(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetState(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, Record{JobID: "j1", TaskID: "t1", SourceURL: "https://x", Mode: "clips", State: "polling"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.SetState(ctx, "j1", "failed", "audio track missing"); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	got, err := store.Get(ctx, "j1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != "failed" || got.ErrorMessage != "audio track missing" {
		t.Fatalf("got = %+v", got)
	}
	if err := store.SetState(ctx, "missing", "failed", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirstAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, jobID := range []string{"j1", "j2", "j3"} {
		if _, err := store.Add(ctx, Record{JobID: jobID, TaskID: "t-" + jobID, SourceURL: "https://x/" + jobID, Mode: "clips", State: "succeeded"}); err != nil {
			t.Fatalf("Add %s: %v", jobID, err)
		}
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 || records[0].JobID != "j3" || records[2].JobID != "j1" {
		t.Fatalf("records = %+v", records)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limited = %d", len(limited))
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, Record{JobID: "j1", TaskID: "t1", SourceURL: "https://x", Mode: "clips", State: "succeeded"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
	if records, err := store.List(ctx, 0); err != nil || len(records) != 0 {
		t.Fatalf("records = %v err = %v", records, err)
	}
}

func TestDuplicateJobIDRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, Record{JobID: "j1", TaskID: "t1", SourceURL: "https://x", Mode: "clips", State: "polling"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Add(ctx, Record{JobID: "j1", TaskID: "t2", SourceURL: "https://x", Mode: "clips", State: "polling"}); err == nil {
		t.Fatal("expected unique constraint error")
	}
}

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://youtu.be/dQw4w9WgXcQ", "Dqw4w9wgxcq"},
		{"https://example.com/videos/team_offsite-2025.mp4", "Team Offsite 2025"},
		{"https://www.youtube.com/watch?v=abc123", "Abc123"},
		{"https://example.com/", "Example"},
		{"", "Untitled Submission"},
	}
	for _, tc := range cases {
		if got := DeriveTitle(tc.url); got != tc.want {
			t.Errorf("DeriveTitle(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
