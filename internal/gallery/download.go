package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"sculptor/internal/api"
	"sculptor/internal/logging"
	"sculptor/internal/services"
)

const (
	defaultStagger = 300 * time.Millisecond
	lockFileName   = ".sculptor.lock"
)

// ClipFetcher is the slice of the API client the downloader depends on.
type ClipFetcher interface {
	DownloadClip(ctx context.Context, jobID string, clipIndex int, destDir string) (string, int64, error)
	DownloadSubtitle(ctx context.Context, jobID string, clipIndex int, destDir string) (string, int64, error)
}

type dirLock interface {
	TryLock() (bool, error)
	Unlock() error
}

// Failure records one clip that could not be downloaded.
type Failure struct {
	ClipIndex int
	Err       error
}

// Summary reports the outcome of a bulk download.
type Summary struct {
	Files    []string
	Failures []Failure
}

// Downloader writes clips for a job to a local directory. Bulk downloads run
// in ascending clip index order with a fixed stagger between starts, and a
// per-directory lock keeps two bulk runs from interleaving writes.
type Downloader struct {
	client       ClipFetcher
	logger       *slog.Logger
	stagger      time.Duration
	minFreeBytes uint64

	sleep     func(ctx context.Context, d time.Duration) error
	freeBytes func(path string) (uint64, error)
	newLock   func(path string) dirLock
}

// DownloaderOption customizes the downloader.
type DownloaderOption func(*Downloader)

// WithStagger overrides the fixed delay between bulk download starts.
func WithStagger(d time.Duration) DownloaderOption {
	return func(dl *Downloader) {
		if d >= 0 {
			dl.stagger = d
		}
	}
}

// WithMinFreeBytes sets the free space required in the destination before a
// bulk download starts. Zero disables the check.
func WithMinFreeBytes(n uint64) DownloaderOption {
	return func(dl *Downloader) {
		dl.minFreeBytes = n
	}
}

// WithDownloaderLogger attaches a logger.
func WithDownloaderLogger(logger *slog.Logger) DownloaderOption {
	return func(dl *Downloader) {
		if logger != nil {
			dl.logger = logger
		}
	}
}

// NewDownloader constructs a downloader backed by the given client.
func NewDownloader(client ClipFetcher, opts ...DownloaderOption) *Downloader {
	dl := &Downloader{
		client:    client,
		logger:    logging.NewNop(),
		stagger:   defaultStagger,
		sleep:     sleepCtx,
		freeBytes: freeBytes,
		newLock: func(path string) dirLock {
			return flock.New(path)
		},
	}
	for _, opt := range opts {
		opt(dl)
	}
	dl.logger = logging.NewComponentLogger(dl.logger, "downloads")
	return dl
}

// DownloadOne fetches a single clip, plus its subtitle track when asked.
func (dl *Downloader) DownloadOne(ctx context.Context, jobID string, clip api.Clip, destDir string, withSubtitles bool) (Summary, error) {
	if err := dl.prepareDir(destDir); err != nil {
		return Summary{}, err
	}
	var summary Summary
	dl.fetchClip(ctx, jobID, clip, destDir, withSubtitles, &summary)
	if len(summary.Failures) > 0 {
		return summary, summary.Failures[0].Err
	}
	return summary, nil
}

// DownloadAll fetches every clip in the list into destDir. Clips are taken in
// ascending clip index order and each start after the first is staggered by
// the configured delay. Individual failures are recorded and skipped rather
// than aborting the run; only setup problems (directory, lock, free space,
// cancellation) fail the whole call.
func (dl *Downloader) DownloadAll(ctx context.Context, jobID string, clips []api.Clip, destDir string, withSubtitles bool) (Summary, error) {
	var summary Summary
	if len(clips) == 0 {
		return summary, nil
	}
	if err := dl.prepareDir(destDir); err != nil {
		return summary, err
	}

	lock := dl.newLock(filepath.Join(destDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return summary, services.Wrap(services.ErrTransient, "downloads", "bulk download", "acquire directory lock", err)
	}
	if !ok {
		return summary, services.Wrap(services.ErrTransient, "downloads", "bulk download",
			fmt.Sprintf("another download is already writing to %s", destDir), nil)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			dl.logger.Warn("failed to release download lock", logging.Error(unlockErr))
		}
	}()

	ordered := make([]api.Clip, len(clips))
	copy(ordered, clips)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ClipIndex < ordered[j].ClipIndex
	})

	dl.logger.Info("bulk download started",
		logging.String(logging.FieldJobID, jobID),
		logging.Int("clips", len(ordered)),
		logging.String("destination", destDir),
	)

	for position, clip := range ordered {
		if position > 0 && dl.stagger > 0 {
			if err := dl.sleep(ctx, dl.stagger); err != nil {
				return summary, err
			}
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		dl.fetchClip(ctx, jobID, clip, destDir, withSubtitles, &summary)
	}

	dl.logger.Info("bulk download finished",
		logging.String(logging.FieldJobID, jobID),
		logging.Int("downloaded", len(summary.Files)),
		logging.Int("failed", len(summary.Failures)),
	)
	return summary, nil
}

func (dl *Downloader) fetchClip(ctx context.Context, jobID string, clip api.Clip, destDir string, withSubtitles bool, summary *Summary) {
	dest, size, err := dl.client.DownloadClip(ctx, jobID, clip.ClipIndex, destDir)
	if err != nil {
		summary.Failures = append(summary.Failures, Failure{ClipIndex: clip.ClipIndex, Err: err})
		dl.logger.Warn("clip download failed",
			logging.String(logging.FieldJobID, jobID),
			logging.Int("clip_index", clip.ClipIndex),
			logging.Error(err),
		)
		return
	}
	summary.Files = append(summary.Files, dest)
	dl.logger.Info("clip downloaded",
		logging.Int("clip_index", clip.ClipIndex),
		logging.Int64("bytes", size),
	)

	if !withSubtitles || !clip.HasSrt {
		return
	}
	srt, _, err := dl.client.DownloadSubtitle(ctx, jobID, clip.ClipIndex, destDir)
	if err != nil {
		// Subtitles ride along with the clip; a missing track is not a
		// failed clip.
		dl.logger.Warn("subtitle download failed",
			logging.Int("clip_index", clip.ClipIndex),
			logging.Error(err),
		)
		return
	}
	summary.Files = append(summary.Files, srt)
}

func (dl *Downloader) prepareDir(destDir string) error {
	if destDir == "" {
		return services.Wrap(services.ErrValidation, "downloads", "prepare", "destination directory required", nil)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "downloads", "prepare", "create destination directory", err)
	}
	if dl.minFreeBytes == 0 {
		return nil
	}
	free, err := dl.freeBytes(destDir)
	if err != nil {
		dl.logger.Warn("free space check failed", logging.Error(err))
		return nil
	}
	if free < dl.minFreeBytes {
		return services.Wrap(services.ErrConfiguration, "downloads", "prepare",
			fmt.Sprintf("insufficient free space in %s (%d MB available, %d MB required)",
				destDir, free/(1024*1024), dl.minFreeBytes/(1024*1024)), nil)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func freeBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
