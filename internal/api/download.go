package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"sculptor/internal/services"
)

// ClipFileName mirrors the attachment name the service assigns to clip
// downloads.
func ClipFileName(jobID string, clipIndex int) string {
	return fmt.Sprintf("clip_%d_%s.mp4", clipIndex, jobID)
}

// SubtitleFileName mirrors the attachment name the service assigns to SRT
// downloads.
func SubtitleFileName(jobID string, clipIndex int) string {
	return fmt.Sprintf("clip_%d_%s.srt", clipIndex, jobID)
}

// AssetFileName mirrors the attachment name the service assigns to job-scoped
// asset downloads.
func AssetFileName(jobID string, kind AssetKind) string {
	ext := assetExtensions[kind]
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s_%s.%s", kind, jobID, ext)
}

// DownloadClip streams one rendered clip into destDir and returns the written
// path and size.
func (c *Client) DownloadClip(ctx context.Context, jobID string, clipIndex int, destDir string) (string, int64, error) {
	if strings.TrimSpace(jobID) == "" {
		return "", 0, services.Wrap(services.ErrValidation, "api", "download clip", "job id required", nil)
	}
	path := fmt.Sprintf("/clips/%s/download/%d", url.PathEscape(jobID), clipIndex)
	dest := filepath.Join(destDir, ClipFileName(jobID, clipIndex))
	size, err := c.downloadTo(ctx, "download clip", path, dest)
	return dest, size, err
}

// DownloadSubtitle streams one clip's SRT file into destDir. Only offered for
// clips reporting HasSrt.
func (c *Client) DownloadSubtitle(ctx context.Context, jobID string, clipIndex int, destDir string) (string, int64, error) {
	if strings.TrimSpace(jobID) == "" {
		return "", 0, services.Wrap(services.ErrValidation, "api", "download subtitle", "job id required", nil)
	}
	path := fmt.Sprintf("/clips/%s/srt/%d", url.PathEscape(jobID), clipIndex)
	dest := filepath.Join(destDir, SubtitleFileName(jobID, clipIndex))
	size, err := c.downloadTo(ctx, "download subtitle", path, dest)
	return dest, size, err
}

// DownloadAsset streams a job-scoped artifact (source video, audio,
// transcript, analysis, or clip metadata) into destDir.
func (c *Client) DownloadAsset(ctx context.Context, jobID string, kind AssetKind, destDir string) (string, int64, error) {
	if strings.TrimSpace(jobID) == "" {
		return "", 0, services.Wrap(services.ErrValidation, "api", "download asset", "job id required", nil)
	}
	if _, ok := assetExtensions[kind]; !ok {
		return "", 0, services.Wrap(services.ErrValidation, "api", "download asset", fmt.Sprintf("unknown asset %q", kind), nil)
	}
	path := fmt.Sprintf("/download/%s/%s", url.PathEscape(jobID), url.PathEscape(string(kind)))
	dest := filepath.Join(destDir, AssetFileName(jobID, kind))
	size, err := c.downloadTo(ctx, "download asset", path, dest)
	return dest, size, err
}

// downloadTo streams a binary response into dest via a partial file that is
// renamed only after the full body was written.
func (c *Client) downloadTo(ctx context.Context, op, path, dest string) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "api", op, "build request", err)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "api", op, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, responseError(op, resp)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "api", op, "create destination directory", err)
	}

	partial := dest + ".partial"
	file, err := os.Create(partial)
	if err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "api", op, "create file", err)
	}

	size, err := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(partial)
		return 0, services.Wrap(services.ErrTransient, "api", op, "write file", err)
	}

	if err := os.Rename(partial, dest); err != nil {
		_ = os.Remove(partial)
		return 0, services.Wrap(services.ErrConfiguration, "api", op, "finalize file", err)
	}
	return size, nil
}
