package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateService(); err != nil {
		return err
	}
	if err := c.validateSubmission(); err != nil {
		return err
	}
	if err := c.validateDownloads(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateService() error {
	parsed, err := url.Parse(c.Service.BaseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("service.base_url must be an http(s) URL, got %q (set SCULPTOR_API_BASE or edit the config file)", c.Service.BaseURL)
	}
	if c.Service.UserID < 1 {
		return errors.New("service.user_id must be a positive identifier")
	}
	if c.Service.TimeoutSeconds < 1 {
		return errors.New("service.timeout_seconds must be at least 1")
	}
	return nil
}

func (c *Config) validateSubmission() error {
	if c.Submission.MaxClips < 1 || c.Submission.MaxClips > 100 {
		return errors.New("submission.max_clips must be between 1 and 100")
	}
	if c.Submission.PollIntervalSeconds < 1 {
		return errors.New("submission.poll_interval_seconds must be at least 1")
	}
	if c.Submission.NavigationDelaySeconds < 0 {
		return errors.New("submission.navigation_delay_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateDownloads() error {
	if c.Downloads.StaggerMilliseconds < 0 {
		return errors.New("downloads.stagger_ms must not be negative")
	}
	if c.Downloads.MinFreeMB < 0 {
		return errors.New("downloads.min_free_mb must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
