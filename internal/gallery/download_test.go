package gallery

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"sculptor/internal/api"
	"sculptor/internal/services"
)

type fakeFetcher struct {
	order    []int
	clipErr  map[int]error
	srtErr   map[int]error
	srtCalls []int
}

func (f *fakeFetcher) DownloadClip(ctx context.Context, jobID string, clipIndex int, destDir string) (string, int64, error) {
	f.order = append(f.order, clipIndex)
	if err := f.clipErr[clipIndex]; err != nil {
		return "", 0, err
	}
	return filepath.Join(destDir, fmt.Sprintf("clip_%d_%s.mp4", clipIndex, jobID)), 100, nil
}

func (f *fakeFetcher) DownloadSubtitle(ctx context.Context, jobID string, clipIndex int, destDir string) (string, int64, error) {
	f.srtCalls = append(f.srtCalls, clipIndex)
	if err := f.srtErr[clipIndex]; err != nil {
		return "", 0, err
	}
	return filepath.Join(destDir, fmt.Sprintf("clip_%d_%s.srt", clipIndex, jobID)), 10, nil
}

type fakeLock struct {
	held     bool
	acquired bool
	released bool
}

func (l *fakeLock) TryLock() (bool, error) {
	if l.held {
		return false, nil
	}
	l.acquired = true
	return true, nil
}

func (l *fakeLock) Unlock() error {
	l.released = true
	return nil
}

func newTestDownloader(fetcher ClipFetcher, lock dirLock, opts ...DownloaderOption) (*Downloader, *[]time.Duration) {
	dl := NewDownloader(fetcher, opts...)
	var sleeps []time.Duration
	dl.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	dl.freeBytes = func(string) (uint64, error) { return 1 << 40, nil }
	if lock != nil {
		dl.newLock = func(string) dirLock { return lock }
	}
	return dl, &sleeps
}

func TestDownloadAllOrdersAndStaggersStarts(t *testing.T) {
	fetcher := &fakeFetcher{}
	lock := &fakeLock{}
	dl, sleeps := newTestDownloader(fetcher, lock)

	clips := []api.Clip{{ClipIndex: 3}, {ClipIndex: 0}, {ClipIndex: 1}}
	summary, err := dl.DownloadAll(context.Background(), "j1", clips, t.TempDir(), false)
	if err != nil {
		t.Fatalf("DownloadAll: %v", err)
	}
	if fmt.Sprint(fetcher.order) != "[0 1 3]" {
		t.Fatalf("order = %v", fetcher.order)
	}
	// First start is immediate, every later one waits one stagger interval.
	if len(*sleeps) != 2 {
		t.Fatalf("sleeps = %v", *sleeps)
	}
	for _, d := range *sleeps {
		if d != defaultStagger {
			t.Fatalf("stagger = %v, want %v", d, defaultStagger)
		}
	}
	if len(summary.Files) != 3 || len(summary.Failures) != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if !lock.acquired || !lock.released {
		t.Fatalf("lock acquired = %v released = %v", lock.acquired, lock.released)
	}
}

func TestDownloadAllContinuesPastFailures(t *testing.T) {
	fetcher := &fakeFetcher{clipErr: map[int]error{
		1: services.Wrap(services.ErrNotFound, "api", "download clip", "missing", nil),
	}}
	dl, _ := newTestDownloader(fetcher, &fakeLock{})

	clips := []api.Clip{{ClipIndex: 0}, {ClipIndex: 1}, {ClipIndex: 2}}
	summary, err := dl.DownloadAll(context.Background(), "j1", clips, t.TempDir(), false)
	if err != nil {
		t.Fatalf("DownloadAll: %v", err)
	}
	if len(summary.Files) != 2 {
		t.Fatalf("files = %v", summary.Files)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].ClipIndex != 1 {
		t.Fatalf("failures = %+v", summary.Failures)
	}
	if fmt.Sprint(fetcher.order) != "[0 1 2]" {
		t.Fatalf("failure aborted the run: %v", fetcher.order)
	}
}

func TestDownloadAllHeldLockRefuses(t *testing.T) {
	dl, _ := newTestDownloader(&fakeFetcher{}, &fakeLock{held: true})

	_, err := dl.DownloadAll(context.Background(), "j1", []api.Clip{{ClipIndex: 0}}, t.TempDir(), false)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected lock contention error, got %v", err)
	}
}

func TestDownloadAllChecksFreeSpace(t *testing.T) {
	dl, _ := newTestDownloader(&fakeFetcher{}, &fakeLock{}, WithMinFreeBytes(500*1024*1024))
	dl.freeBytes = func(string) (uint64, error) { return 10 * 1024 * 1024, nil }

	_, err := dl.DownloadAll(context.Background(), "j1", []api.Clip{{ClipIndex: 0}}, t.TempDir(), false)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected free space error, got %v", err)
	}
}

func TestDownloadAllFetchesSubtitlesWhenPresent(t *testing.T) {
	fetcher := &fakeFetcher{srtErr: map[int]error{
		2: services.Wrap(services.ErrNotFound, "api", "download subtitle", "missing", nil),
	}}
	dl, _ := newTestDownloader(fetcher, &fakeLock{})

	clips := []api.Clip{
		{ClipIndex: 0, HasSrt: true},
		{ClipIndex: 1, HasSrt: false},
		{ClipIndex: 2, HasSrt: true},
	}
	summary, err := dl.DownloadAll(context.Background(), "j1", clips, t.TempDir(), true)
	if err != nil {
		t.Fatalf("DownloadAll: %v", err)
	}
	if fmt.Sprint(fetcher.srtCalls) != "[0 2]" {
		t.Fatalf("srt calls = %v", fetcher.srtCalls)
	}
	// Clip 2's video counts even though its subtitle fetch failed.
	if len(summary.Files) != 4 || len(summary.Failures) != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestDownloadAllStopsOnCancellation(t *testing.T) {
	fetcher := &fakeFetcher{}
	dl, _ := newTestDownloader(fetcher, &fakeLock{})
	ctx, cancel := context.WithCancel(context.Background())
	dl.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := dl.DownloadAll(ctx, "j1", []api.Clip{{ClipIndex: 0}, {ClipIndex: 1}}, t.TempDir(), false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if fmt.Sprint(fetcher.order) != "[0]" {
		t.Fatalf("order = %v", fetcher.order)
	}
}

func TestDownloadOne(t *testing.T) {
	fetcher := &fakeFetcher{}
	dl, _ := newTestDownloader(fetcher, nil)

	summary, err := dl.DownloadOne(context.Background(), "j1", api.Clip{ClipIndex: 4, HasSrt: true}, t.TempDir(), true)
	if err != nil {
		t.Fatalf("DownloadOne: %v", err)
	}
	if len(summary.Files) != 2 {
		t.Fatalf("files = %v", summary.Files)
	}
}
