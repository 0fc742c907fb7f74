package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeService()
	c.normalizeSubmission()
	c.normalizeDownloads()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		c.Paths.DownloadDir = defaultDownloadDir
	}
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeService() {
	c.Service.BaseURL = strings.TrimSpace(c.Service.BaseURL)
	if value, ok := os.LookupEnv("SCULPTOR_API_BASE"); ok && strings.TrimSpace(value) != "" {
		c.Service.BaseURL = strings.TrimSpace(value)
	}
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaultServiceBaseURL
	}
	c.Service.BaseURL = strings.TrimRight(c.Service.BaseURL, "/")
	if c.Service.UserID == 0 {
		c.Service.UserID = defaultServiceUserID
	}
	if c.Service.TimeoutSeconds == 0 {
		c.Service.TimeoutSeconds = defaultServiceTimeoutSeconds
	}
}

func (c *Config) normalizeSubmission() {
	if c.Submission.MaxClips == 0 {
		c.Submission.MaxClips = defaultMaxClips
	}
	if c.Submission.PollIntervalSeconds == 0 {
		c.Submission.PollIntervalSeconds = defaultPollIntervalSeconds
	}
	if c.Submission.NavigationDelaySeconds == 0 {
		c.Submission.NavigationDelaySeconds = defaultNavigationDelaySeconds
	}
}

func (c *Config) normalizeDownloads() {
	if c.Downloads.StaggerMilliseconds == 0 {
		c.Downloads.StaggerMilliseconds = defaultStaggerMilliseconds
	}
	if c.Downloads.MinFreeMB == 0 {
		c.Downloads.MinFreeMB = defaultMinFreeMB
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
